// Package checksum hashes split files so runs can be compared.
//
// Two digests are produced for every file:
//
//   - Raw: SHA-256 of the exact bytes. Any edit changes it.
//   - Normalized: SHA-256 after lowercasing, stripping SQL comments outside
//     literals and collapsing whitespace. A file that was only reformatted or
//     re-commented keeps its normalized digest.
//
// The manifest stores the raw digest; verify falls back to the normalized digest
// to tell a reformatted file from a modified one.
//
//	calc := checksum.New()
//	raw := calc.CalculateRaw(content)
//	norm := calc.CalculateNormalized(content)
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
