// Package document extracts plain text from input documents and writes
// the transformed text back out.
//
// The transformation core operates on plain text only; this package is the
// I/O collaborator that turns a source file into text and a result back
// into a file. Supported sources are plain text (including Markdown), PDF,
// and HTML. Binary formats are never re-embedded: the modified text of a
// PDF or HTML source is written as a UTF-8 text file next to the source.
//
// Design decision: Extraction is dispatched on the file extension rather
// than content sniffing. The inputs here are files the user names
// explicitly on the command line, so a wrong extension is a user error
// worth surfacing, not a case to paper over.
package document
