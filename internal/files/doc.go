// Package files groups the file-related functionality of sqlsplit.
//
//   - filesystem: Filesystem abstraction (OS and in-memory)
//   - scanner: Finds split files already present in an output directory
//   - writer: Writes a split plan to disk and reports progress
//
// # Usage
//
//	plan, err := splitter.Split(document, opts)
//	w := writer.New(filesystem.NewOSFileSystem(), logger, writer.Options{OutputDir: "."})
//	report, err := w.Write(ctx, plan, document)
package files
