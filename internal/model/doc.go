// Package model defines the data structures shared across colorcarbon.
//
// This package contains the following main types:
//   - Report: per-color intensity samples plus the aggregate score
//   - Rating: the score band shown to users
//   - Analysis: the working state of one website or image analysis
//   - Page: a fetched HTTP resource (HTML page or stylesheet)
//
// Models are separated into their own package so that crawler, pipeline,
// report and database can share them without import cycles. All types
// serialize to JSON for report output and history storage.
package model
