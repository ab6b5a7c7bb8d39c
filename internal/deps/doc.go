// Package deps checks that the external binaries the pipeline drives are
// installed and runnable before any stage starts.
package deps
