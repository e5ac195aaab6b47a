package storage

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	keyPrefix    = "uploads/"
	keySuffixLen = 6
)

// keySpace is 36^keySuffixLen.
const keySpace = 36 * 36 * 36 * 36 * 36 * 36

// KeyGenerator names uploaded images
// uploads/<epoch-millis>-<base36 suffix>.jpg. Uniqueness is probabilistic;
// collisions are not checked.
type KeyGenerator struct {
	Now  func() time.Time
	Rand func(n int64) int64
}

// NewKeyGenerator uses the wall clock and math/rand.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{
		Now:  time.Now,
		Rand: rand.Int64N,
	}
}

// Next returns a fresh object key.
func (g *KeyGenerator) Next() string {
	suffix := strconv.FormatInt(g.Rand(keySpace), 36)
	if len(suffix) < keySuffixLen {
		suffix = strings.Repeat("0", keySuffixLen-len(suffix)) + suffix
	}
	return fmt.Sprintf("%s%d-%s.jpg", keyPrefix, g.Now().UnixMilli(), suffix)
}
