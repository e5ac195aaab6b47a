// Package server assembles the chat relay: configuration, logging, metrics,
// tracing, the object store, the detection pipeline and the gin router.
package server
