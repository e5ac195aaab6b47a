package stream

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

const (
	ContentType     = "text/plain; charset=utf-8"
	ProtocolHeader  = "X-Vercel-AI-Data-Stream"
	ProtocolVersion = "v1"

	FinishReasonStop = "stop"
	PromptTokens     = 10
)

// Line tags
const (
	TagText   = "0"
	TagFinish = "e"
	TagDone   = "d"
)

// Usage is the token accounting attached to finish and done events.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
}

// FinishStep is the payload of the end-of-turn event.
type FinishStep struct {
	FinishReason string `json:"finishReason"`
	Usage        Usage  `json:"usage"`
	IsContinued  bool   `json:"isContinued"`
}

// FinishMessage is the payload of the done event.
type FinishMessage struct {
	FinishReason string `json:"finishReason"`
	Usage        Usage  `json:"usage"`
}

// SetHeaders sets the response headers for a data stream.
func SetHeaders(h http.Header) {
	h.Set("Content-Type", ContentType)
	h.Set(ProtocolHeader, ProtocolVersion)
}

// Lines splits message into content chunks. Each chunk but the last keeps
// its trailing newline, so concatenating the chunks yields message again.
func Lines(message string) []string {
	parts := strings.Split(message, "\n")
	for i := 0; i < len(parts)-1; i++ {
		parts[i] += "\n"
	}
	return parts
}

// CompletionTokens estimates completion usage as the message length in
// UTF-16 code units, the length a browser client sees. It is not a token
// count.
func CompletionTokens(message string) int {
	return len(utf16.Encode([]rune(message)))
}

// UsageFor returns the usage reported for a reply.
func UsageFor(message string) Usage {
	return Usage{
		PromptTokens:     PromptTokens,
		CompletionTokens: CompletionTokens(message),
	}
}

// Writer emits tagged lines and flushes after each one when the
// destination supports it.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	sw := &Writer{w: w}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

// Text writes one content chunk. Invalid UTF-8 is replaced with U+FFFD so
// every line stays valid JSON text.
func (sw *Writer) Text(chunk string) error {
	return sw.write(TagText, strings.ToValidUTF8(chunk, string(utf8.RuneError)))
}

// Finish writes the end-of-turn event.
func (sw *Writer) Finish(usage Usage) error {
	return sw.write(TagFinish, FinishStep{
		FinishReason: FinishReasonStop,
		Usage:        usage,
		IsContinued:  false,
	})
}

// Done writes the final event of the stream.
func (sw *Writer) Done(usage Usage) error {
	return sw.write(TagDone, FinishMessage{
		FinishReason: FinishReasonStop,
		Usage:        usage,
	})
}

func (sw *Writer) write(tag string, payload interface{}) error {
	data, err := sonic.ConfigDefault.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s chunk: %w", tag, err)
	}

	line := make([]byte, 0, len(tag)+len(data)+2)
	line = append(line, tag...)
	line = append(line, ':')
	line = append(line, data...)
	line = append(line, '\n')

	if _, err := sw.w.Write(line); err != nil {
		return fmt.Errorf("write %s chunk: %w", tag, err)
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	return nil
}

// Write streams message as content chunks followed by the finish and done
// events. The caller closes the underlying stream.
func Write(w io.Writer, message string) error {
	sw := NewWriter(w)
	for _, chunk := range Lines(message) {
		if err := sw.Text(chunk); err != nil {
			return err
		}
	}

	usage := UsageFor(message)
	if err := sw.Finish(usage); err != nil {
		return err
	}
	return sw.Done(usage)
}
