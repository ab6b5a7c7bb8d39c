// Package textutil provides small text helpers shared by the pipeline stages:
// rune-safe truncation, word counting, non-blank line extraction, title
// casing, and filesystem-safe tokens.
package textutil
