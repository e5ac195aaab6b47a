// Package id provides ULID generation for trace and span identifiers.
//
// ULIDs are lexicographically sortable by creation time, so ids in logs
// line up with the order requests arrived in. Prefixes make the id kind
// visible at a glance (trace_*, span_*).
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TraceID identifies one inbound request across services
type TraceID string

// SpanID identifies one operation inside a trace
type SpanID string

const (
	TracePrefix = "trace"
	SpanPrefix  = "span"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
	now       func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
// and clock. Useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		entropy: entropy,
		now:     now,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewTraceID generates a new trace ID
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

func (id TraceID) String() string { return string(id) }
func (id SpanID) String() string  { return string(id) }

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := ulid.Parse(strip(id))
	return err == nil
}

func strip(id string) string {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		return id[i+1:]
	}
	return id
}
