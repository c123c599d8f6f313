package model

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource hands out identifiers for vehicles and clients.
type IDSource interface {
	Next(prefix string) string
}

// Sequence is a monotonic IDSource producing prefix1, prefix2, ...
// The counter is shared across prefixes.
type Sequence struct {
	n atomic.Uint64
}

// NewSequence returns a Sequence starting at 1.
func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) Next(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, s.n.Add(1))
}

const (
	shortIDLen      = 8
	shortIDAttempts = 16
)

// ShortIDSource issues 8 character ids cut from random UUIDs. Every issued
// id is remembered and a collision triggers a retry, so ids stay unique for
// the lifetime of the source.
type ShortIDSource struct {
	mu     sync.Mutex
	issued map[string]struct{}
	newID  func() string
}

// NewShortIDSource returns a ShortIDSource backed by uuid.NewString.
func NewShortIDSource() *ShortIDSource {
	return &ShortIDSource{issued: make(map[string]struct{}), newID: uuid.NewString}
}

func (s *ShortIDSource) Next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < shortIDAttempts; i++ {
		id := prefix + strings.ReplaceAll(s.newID(), "-", "")[:shortIDLen]
		if _, taken := s.issued[id]; taken {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
	// Short prefixes exhausted their luck; a full uuid cannot collide in practice.
	id := prefix + s.newID()
	s.issued[id] = struct{}{}
	return id
}

var defaultIDs IDSource = NewShortIDSource()

// Option customises entity construction.
type Option func(*options)

type options struct {
	id  string
	ids IDSource
}

// WithID forces the identifier instead of drawing one from the IDSource.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithIDSource draws the identifier from src.
func WithIDSource(src IDSource) Option {
	return func(o *options) { o.ids = src }
}

func resolveID(prefix string, opts []Option) string {
	o := options{ids: defaultIDs}
	for _, fn := range opts {
		fn(&o)
	}
	if o.id != "" {
		return o.id
	}
	if o.ids == nil {
		o.ids = defaultIDs
	}
	return o.ids.Next(prefix)
}
