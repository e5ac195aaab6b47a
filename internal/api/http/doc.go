// Package http implements the HTTP handlers of the chat relay.
//
// Routes:
//   - POST /api/chat: decode a chat turn, run object detection on its first
//     image and stream the reply in the data stream line protocol
//   - GET /, GET /health: service status
//
// Handlers depend on the ImagePipeline interface, so tests drive them with
// a stub pipeline or a real one pointed at httptest servers.
package http
