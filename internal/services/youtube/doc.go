// Package youtube implements the slice of the YouTube Data API v3 the
// publisher needs: the refresh-token exchange (golang.org/x/oauth2), the
// two-phase resumable upload (session init, then a single PUT of the bytes),
// and playlistItems.insert.
package youtube
