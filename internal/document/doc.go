// Package document reads selected files and assembles the review payload.
//
// A [Reader] decodes each file as UTF-8, falling back to ISO-8859-1 so any
// byte sequence can be represented, and sanitizes the text for embedding:
// NUL bytes are dropped, line endings are normalized to "\n" and a missing
// final newline is added. Read failures are warnings, never fatal.
//
// An [Assembler] combines the directory layout with one delimited block per
// readable file:
//
//	+++ <relative-path> START +++
//	<content>
//	+++ <relative-path> END +++
//
// Blocks follow the sorted relative-path order used by the layout. Files
// that cannot be read stay in the layout but are left out of the body.
package document
