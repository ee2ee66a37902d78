// Package main provides the entry point for the veiltext CLI.
//
// Veiltext applies layered steganographic transformations to Indonesian
// academic text: homoglyph substitution, invisible-character injection,
// and contextual paraphrasing, followed by a detection-risk assessment.
//
// Usage:
//
//	veiltext transform <file>
//	veiltext assess <original> <modified>
//
// See --help for all available options.
package main

// main is the entry point for veiltext.
func main() {
	Execute()
}
