// Package database stores the history of analyses in SQLite.
//
// Every successful analysis can be saved as one row holding its score,
// rating, fingerprint and the full report as JSON. The history lets the
// compare command show how a site's palette and score changed over time.
//
// Design decision: We use modernc.org/sqlite (pure Go) so the binary stays
// CGO-free and the database is a single file in the XDG data directory.
package database
