// Package store persists one palette per user.
//
// Records carry no version field. A row that no longer parses is reported
// as ErrMalformedRecord and callers regenerate it rather than migrate it.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"monochrome/internal/palette"
)

// ErrMalformedRecord marks a stored palette that cannot be decoded
var ErrMalformedRecord = errors.New("malformed palette record")

// Repository defines the persistence interface for user palettes.
type Repository interface {
	// Get returns the palette saved for userID, or nil if there is none.
	Get(ctx context.Context, userID string) (*palette.Palette, error)

	// Save replaces the palette for userID.
	Save(ctx context.Context, userID string, p palette.Palette) error

	// Delete removes the palette for userID. Deleting a missing record is not an error.
	Delete(ctx context.Context, userID string) error

	// Close releases resources.
	Close() error
}

// normalizeUser keys records case-insensitively, like the user store does
func normalizeUser(userID string) string {
	return strings.ToLower(strings.TrimSpace(userID))
}

// decodeRecord turns six stored hex strings into a Palette
func decodeRecord(fields [6]string) (*palette.Palette, error) {
	var slots [6]palette.Color
	for i, f := range fields {
		c, err := palette.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, palette.SlotNames[i], err)
		}
		slots[i] = c
	}
	return &palette.Palette{
		BaseColor:      slots[0],
		TextColor:      slots[1],
		BaseLighter:    slots[2],
		AdminbarColor:  slots[3],
		AdminbarText:   slots[4],
		AdminbarDarker: slots[5],
	}, nil
}

// MemoryRepository keeps palettes in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	palettes map[string][6]string
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{palettes: make(map[string][6]string)}
}

// Get returns the palette for userID, or nil if not found.
func (m *MemoryRepository) Get(_ context.Context, userID string) (*palette.Palette, error) {
	m.mu.RLock()
	rec, ok := m.palettes[normalizeUser(userID)]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return decodeRecord(rec)
}

// Save stores p for userID.
func (m *MemoryRepository) Save(_ context.Context, userID string, p palette.Palette) error {
	var rec [6]string
	for i, c := range p.Slots() {
		rec[i] = c.String()
	}

	m.mu.Lock()
	m.palettes[normalizeUser(userID)] = rec
	m.mu.Unlock()
	return nil
}

// Delete removes the palette for userID.
func (m *MemoryRepository) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.palettes, normalizeUser(userID))
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MemoryRepository) Close() error { return nil }

// putRaw stores unvalidated fields. Only tests use it.
func (m *MemoryRepository) putRaw(userID string, rec [6]string) {
	m.mu.Lock()
	m.palettes[normalizeUser(userID)] = rec
	m.mu.Unlock()
}

// Open returns the repository selected by driver ("sqlite" or "memory").
func Open(driver, path string) (Repository, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite":
		return OpenAt(path)
	case "memory":
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
