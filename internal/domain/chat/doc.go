// Package chat defines the chat turn accepted by the relay and the replies
// it produces.
//
// Messages are decoded into a structural type with one named, strippable
// field (experimental_attachments) and an opaque remainder, so the relay
// can drop attachments without knowing the rest of the client's schema.
package chat
