// Package writer is the side-effecting half of a split: it takes a plan from
// the splitter package and turns it into files, console output and, optionally,
// a manifest.
//
// Files are written in plan order. Existing files are replaced without asking.
// The first write failure stops the run and files already written stay on disk.
package writer
