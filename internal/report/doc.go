// Package report renders analyses for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: boxed plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid chart
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) so output formats can be added without
// touching scoring.
package report
