package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// attachmentsKey is the message field dropped by Normalize.
const attachmentsKey = "experimental_attachments"

var errNotObject = errors.New("chat request must be a JSON object")

// jsonAPI sorts map keys so re-encoded messages are stable.
var jsonAPI = sonic.Config{SortMapKeys: true}.Froze()

// ChatRequest is one decoded chat turn. Fields of an unexpected JSON type
// decode to their zero value instead of failing the turn.
type ChatRequest struct {
	Messages      []Message
	SelectedModel string
	Data          *RequestData
}

// RequestData carries the optional attachments of a turn. Images keeps the
// raw array elements; only a leading string is ever used.
type RequestData struct {
	Images []json.RawMessage
}

type wireRequest struct {
	Messages      json.RawMessage `json:"messages"`
	SelectedModel json.RawMessage `json:"selectedModel"`
	Data          json.RawMessage `json:"data"`
}

type wireData struct {
	Images json.RawMessage `json:"images"`
}

// UnmarshalJSON requires a JSON object and tolerates any shape inside it.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	if kindOf(data) != '{' {
		return errNotObject
	}
	var wire wireRequest
	if err := jsonAPI.Unmarshal(data, &wire); err != nil {
		return err
	}

	*r = ChatRequest{}
	if kindOf(wire.Messages) == '[' {
		if err := jsonAPI.Unmarshal(wire.Messages, &r.Messages); err != nil {
			return err
		}
	}
	if kindOf(wire.SelectedModel) == '"' {
		_ = jsonAPI.Unmarshal(wire.SelectedModel, &r.SelectedModel)
	}
	if kindOf(wire.Data) == '{' {
		var d wireData
		if err := jsonAPI.Unmarshal(wire.Data, &d); err != nil {
			return err
		}
		r.Data = &RequestData{}
		if kindOf(d.Images) == '[' {
			if err := jsonAPI.Unmarshal(d.Images, &r.Data.Images); err != nil {
				return err
			}
		}
	}
	return nil
}

// kindOf returns the first significant byte of a JSON value, or 0.
func kindOf(raw []byte) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}

// DetectionResult is the prediction service response body.
type DetectionResult struct {
	DetectionCount int      `json:"detection_count"`
	Labels         []string `json:"labels"`
	PredictionUID  string   `json:"prediction_uid"`
}

// Message is a chat message whose schema is only partially known. The
// attachments field is kept apart so it can be stripped; every other field
// is carried through untouched in Fields. A message that is not a JSON
// object is kept verbatim in Raw.
type Message struct {
	Attachments json.RawMessage
	Fields      map[string]json.RawMessage
	Raw         json.RawMessage
}

// UnmarshalJSON splits the attachments field from the remainder.
func (m *Message) UnmarshalJSON(data []byte) error {
	if kindOf(data) != '{' {
		*m = Message{Raw: append(json.RawMessage(nil), bytes.TrimSpace(data)...)}
		return nil
	}
	m.Raw = nil
	var raw map[string]json.RawMessage
	if err := jsonAPI.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if att, ok := raw[attachmentsKey]; ok {
		m.Attachments = att
		delete(raw, attachmentsKey)
	} else {
		m.Attachments = nil
	}
	m.Fields = raw
	return nil
}

// MarshalJSON re-assembles the message, including attachments if present.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Raw != nil {
		return m.Raw, nil
	}
	out := make(map[string]json.RawMessage, len(m.Fields)+1)
	for k, v := range m.Fields {
		out[k] = v
	}
	if m.Attachments != nil {
		out[attachmentsKey] = m.Attachments
	}
	return jsonAPI.Marshal(out)
}

// HasAttachments reports whether the attachments field was present.
func (m Message) HasAttachments() bool {
	return m.Attachments != nil
}

// Field returns the raw JSON of a remainder field.
func (m Message) Field(name string) (json.RawMessage, bool) {
	v, ok := m.Fields[name]
	return v, ok
}
