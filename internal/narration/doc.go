// Package narration turns script sections into spoken audio files through the
// speech service, one sequential call per section with narration.
package narration
