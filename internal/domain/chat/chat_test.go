package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantImage  string
		wantOK     bool
		wantModel  string
		wantMsgLen int
		wantErr    bool
	}{
		{
			name:       "no data",
			body:       `{"messages":[{"role":"user","content":"hi"}],"selectedModel":"llava"}`,
			wantModel:  "llava",
			wantMsgLen: 1,
		},
		{
			name:       "empty images",
			body:       `{"messages":[],"data":{"images":[]}}`,
			wantMsgLen: 0,
		},
		{
			name:       "null data",
			body:       `{"messages":[],"data":null}`,
			wantMsgLen: 0,
		},
		{
			name:       "first image only",
			body:       `{"messages":[],"data":{"images":["data:image/png;base64,AAAA","http://x/2.jpg"]}}`,
			wantImage:  "data:image/png;base64,AAAA",
			wantOK:     true,
			wantMsgLen: 0,
		},
		{
			name:       "absent everything",
			body:       `{}`,
			wantMsgLen: 0,
		},
		{
			name:       "numeric model",
			body:       `{"messages":[],"selectedModel":5}`,
			wantMsgLen: 0,
		},
		{
			name:       "string data",
			body:       `{"messages":[],"data":"x"}`,
			wantMsgLen: 0,
		},
		{
			name:       "numeric images",
			body:       `{"messages":[],"data":{"images":5}}`,
			wantMsgLen: 0,
		},
		{
			name:       "first image not a string",
			body:       `{"messages":[],"data":{"images":[{"url":"http://x/1.jpg"},"http://x/2.jpg"]}}`,
			wantMsgLen: 0,
		},
		{
			name:       "string messages",
			body:       `{"messages":"nope"}`,
			wantMsgLen: 0,
		},
		{
			name:       "non-object messages",
			body:       `{"messages":["hi",3,null,{"role":"user"}],"selectedModel":"llava"}`,
			wantModel:  "llava",
			wantMsgLen: 4,
		},
		{
			name:    "top-level array",
			body:    `[{"messages":[]}]`,
			wantErr: true,
		},
		{
			name:    "malformed",
			body:    `{"messages":`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := DecodeRequest([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			image, ok := req.FirstImage()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantImage, image)
			assert.Equal(t, tt.wantModel, req.SelectedModel)
			assert.Len(t, req.Messages, tt.wantMsgLen)
		})
	}
}

func TestFirstImageNilRequest(t *testing.T) {
	var req *ChatRequest
	_, ok := req.FirstImage()
	assert.False(t, ok)
}

func TestNormalizeStripsAttachments(t *testing.T) {
	body := `{"messages":[
		{"role":"user","content":"look","experimental_attachments":[{"url":"data:image/png;base64,AAAA"}]},
		{"role":"assistant","content":"ok","id":"m2"}
	]}`
	req, err := DecodeRequest([]byte(body))
	require.NoError(t, err)
	require.Len(t, req.Messages, 2)
	require.True(t, req.Messages[0].HasAttachments())

	cleaned := Normalize(req.Messages)

	require.Len(t, cleaned, 2)
	for _, m := range cleaned {
		assert.False(t, m.HasAttachments())
	}

	role, ok := cleaned[0].Field("role")
	require.True(t, ok)
	assert.JSONEq(t, `"user"`, string(role))

	id, ok := cleaned[1].Field("id")
	require.True(t, ok)
	assert.JSONEq(t, `"m2"`, string(id))

	// input untouched
	assert.True(t, req.Messages[0].HasAttachments())

	out, err := json.Marshal(cleaned[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","content":"look"}`, string(out))
}

func TestMessageMarshalKeepsAttachments(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"content":"x","experimental_attachments":[]}`), &m))

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"x","experimental_attachments":[]}`, string(out))
}

func TestNormalizeKeepsNonObjectMessages(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"messages":["hi",{"content":"x","experimental_attachments":[]},7]}`))
	require.NoError(t, err)
	require.Len(t, req.Messages, 3)

	cleaned := Normalize(req.Messages)

	out, err := json.Marshal(cleaned)
	require.NoError(t, err)
	assert.JSONEq(t, `["hi",{"content":"x"},7]`, string(out))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestSuccessReply(t *testing.T) {
	reply := SuccessReply(DetectionResult{
		DetectionCount: 3,
		Labels:         []string{"person", "dog", "person"},
		PredictionUID:  "abc-123",
	})

	want := "🔍 **Object Detection Results**\n\n" +
		"**Detection Count:** 3\n" +
		"**Detected Objects:** person, dog, person\n" +
		"**Prediction ID:** abc-123\n\n" +
		"I've analyzed your image and detected 3 object(s). The detected objects include: person, dog, person."
	assert.Equal(t, want, reply)
}

func TestSuccessReplyNoLabels(t *testing.T) {
	reply := SuccessReply(DetectionResult{PredictionUID: "p"})
	assert.Contains(t, reply, "**Detection Count:** 0\n")
	assert.Contains(t, reply, "**Detected Objects:** \n")
}

func TestErrorReply(t *testing.T) {
	reply := ErrorReply("Prediction API error: 503", "yolo:8080")

	want := "❌ **Object Detection Error**\n\n" +
		"Sorry, I encountered an error while processing your image: Prediction API error: 503\n\n" +
		"Please make sure the object detection service is running on yolo:8080."
	assert.Equal(t, want, reply)
	assert.Contains(t, ErrorReply("", "h"), "Unknown error")
}
