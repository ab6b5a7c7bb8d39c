// Package main hosts the issuereel CLI.
//
// generate runs one issue or pull request through the video pipeline. deps,
// config and runs are operator utilities for checking the toolchain,
// scaffolding configuration and reading run history.
package main
