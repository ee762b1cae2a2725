// Package manifest records and checks the files produced by a split.
//
// A manifest lists every emitted file with a deterministic identity and its
// checksums. Identities are UUID v5 values derived from the filename, so the
// same split always yields the same manifest, byte for byte.
//
// Verify re-derives the expected files from a fresh plan and compares them with
// what is on disk, which makes hand edits to generated files visible.
package manifest
