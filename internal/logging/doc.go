// Package logging provides concrete implementations of the sqlsplit.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr, styled when stderr is a terminal
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
