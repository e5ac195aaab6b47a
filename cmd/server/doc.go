// Package main is the entry point for the chat relay server.
//
// The relay answers chat turns from the web UI: it takes the first image
// of a turn, stores it in S3, asks the object detection service about it
// and streams a formatted reply back.
//
// Architecture:
//
//	Chat UI → Go Relay → S3 (image upload)
//	                   → Detection service (POST /predict?img=<key>)
//
// Configuration:
//   - .env file, if present (loaded first)
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	AWS_S3_BUCKET=uploads YOLO_SERVICE=yolo:8080 ./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
