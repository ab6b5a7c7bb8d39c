// Package compose encodes the final video with ffmpeg: each narrated section
// becomes a still-image clip of its estimated duration, clips are concatenated
// with their audio, and the result is encoded as H.264/AAC MP4.
package compose
