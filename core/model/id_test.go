package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, "V1", s.Next("V"))
	assert.Equal(t, "C2", s.Next("C"))
	assert.Equal(t, "V3", s.Next("V"))
}

func TestShortIDSource_RetriesOnCollision(t *testing.T) {
	calls := 0
	outputs := []string{
		"aaaaaaaa-0000-0000-0000-000000000000",
		"aaaaaaaa-1111-1111-1111-111111111111",
		"bbbbbbbb-0000-0000-0000-000000000000",
	}
	s := NewShortIDSource()
	s.newID = func() string {
		out := outputs[calls]
		calls++
		return out
	}
	assert.Equal(t, "Vaaaaaaaa", s.Next("V"))
	assert.Equal(t, "Vbbbbbbbb", s.Next("V"))
	assert.Equal(t, 3, calls)
}

func TestShortIDSource_Unique(t *testing.T) {
	s := NewShortIDSource()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := s.Next("C")
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestDuplicateIDError(t *testing.T) {
	err := error(&DuplicateIDError{Entity: "vehicle", ID: "V1"})
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Equal(t, "vehicle with id V1 already exists", err.Error())
}
