package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrEmptyBody is returned when the request carries no JSON at all.
var ErrEmptyBody = errors.New("empty request body")

// DecodeRequest parses a chat turn. Missing or mistyped fields decode to
// zero values; only malformed JSON, or a body that is not an object, is an
// error.
func DecodeRequest(body []byte) (*ChatRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}
	var req ChatRequest
	if err := jsonAPI.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("decode chat request: %w", err)
	}
	return &req, nil
}

// FirstImage returns the first image locator when it is a JSON string. Any
// further images are ignored.
func (r *ChatRequest) FirstImage() (string, bool) {
	if r == nil || r.Data == nil || len(r.Data.Images) == 0 {
		return "", false
	}
	first := r.Data.Images[0]
	if kindOf(first) != '"' {
		return "", false
	}
	var image string
	if err := jsonAPI.Unmarshal(first, &image); err != nil {
		return "", false
	}
	return image, true
}

// Normalize returns copies of messages with the attachments field removed.
// Order and all other fields are preserved; the input is not modified.
func Normalize(messages []Message) []Message {
	return lo.Map(messages, func(m Message, _ int) Message {
		if m.Raw != nil {
			return Message{Raw: m.Raw}
		}
		fields := make(map[string]json.RawMessage, len(m.Fields))
		for k, v := range m.Fields {
			fields[k] = v
		}
		return Message{Fields: fields}
	})
}
