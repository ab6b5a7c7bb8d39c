// Package archive copies the final video and run snapshots to MinIO or any
// S3-compatible store when archiving is enabled.
package archive
