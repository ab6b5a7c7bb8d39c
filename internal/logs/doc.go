// Package logs reads the JSON run log written next to the console output.
//
// Last and ReadFrom work on whole lines and report the byte offset they
// stopped at, so Follow can poll for appended records without rereading the
// file. Entries decode the handful of fields the CLI filters and prints on.
package logs
