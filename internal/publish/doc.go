// Package publish derives upload metadata, sends the video to the hosting
// platform and comments the resulting link on the source record.
package publish
