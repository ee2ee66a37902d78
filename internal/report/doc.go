// Package report renders transform results for human and machine readers.
//
// Three writers cover the supported formats:
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration, with an optional
//     metadata-wrapped variant (FullJSONWriter)
//   - MarkdownWriter: Markdown with tables, alerts, and a change chart
//
// Every writer renders either a full TransformReport or a standalone
// RiskAssessment; the assess command uses the latter when no transform
// ran. Writers implement the Writer interface and can be composed with
// MultiWriter for multi-format output.
//
// Design decision: Report writing stays separate from the result types
// in the model package so that new output formats never touch the data
// structures the pipeline and database depend on.
package report
