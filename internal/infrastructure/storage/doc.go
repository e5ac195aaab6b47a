// Package storage writes uploaded chat images to S3.
//
// The store is a pass-through: one PutObject per processed image, no
// read-back, no existence check. It is constructed explicitly and injected
// into the image pipeline, so tests substitute any PutObjectAPI.
package storage
