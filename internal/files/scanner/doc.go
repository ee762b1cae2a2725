// Package scanner inventories split files already present in an output
// directory.
//
// A split file is any <YYYYMMDD>_<NNN>_<name>.sql file whose date prefix
// matches the run. The inventory lets the writer prune files an earlier split
// produced and lets verification report them as stale.
//
// The scanner reads through filesystem.FileSystemProvider so it works against
// both the OS filesystem and the in-memory one used in tests.
package scanner
