// Package runstore keeps a SQLite history of pipeline runs: what was
// rendered, where the working directory lives, how the run ended and the
// published URL.
package runstore
