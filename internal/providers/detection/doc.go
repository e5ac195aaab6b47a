// Package detection runs the object detection pipeline for a chat image.
//
// A run is strictly sequential:
//  1. Fetch the image (data: URL decoded in-process, http(s) downloaded)
//  2. Upload the bytes to the object store under a fresh uploads/ key
//  3. POST http://<host>/predict?img=<key> and decode the result
//
// Any failure ends the run and is reported as Outcome.Err, the text the
// chat user will see. Nothing is retried.
package detection
