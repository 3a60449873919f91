// Package stdio provides swappable standard output targets and a redirecting
// output stream that can mirror everything written to them into a file.
//
// A Streams value owns the two writer slots (Out and Err) that library code
// should print through. Opening a redirect swaps a Redirect into both slots,
// forwarding writes to the previously installed Out while appending them to
// an optional log file. At most one redirect is active per Streams at a time:
// opening again returns the active instance unchanged, and closing restores
// the captured writers.
//
// The package-level Open, Close and With helpers operate on the process-wide
// Default streams. Applications that need isolation (tests, embedded use)
// should create their own Streams with New and pass it explicitly.
//
// Streams and Redirect are not safe for concurrent use. Redirection mutates
// process-wide output routing and is expected to happen once, near the top
// of main.
package stdio
