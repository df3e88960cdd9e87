// Package ledger records the image variants blick generated, so they can be
// checked against their sources later.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/owzim/blick/internal/storage"
)

const DefaultLedgerFile = ".blick.lock"

// Ledger is the set of generated variants, keyed by variant path.
type Ledger struct {
	// Version of the ledger format.
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`

	// now stamps new entries.
	now func() time.Time
}

// Entry records one generated variant.
type Entry struct {
	Variant     string `json:"variant"`      // path of the variant file
	Source      string `json:"source"`       // path of the image it was derived from
	SourceMtime int64  `json:"source_mtime"` // source modification time at generation
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Checksum    string `json:"checksum"`     // xxhash64 of the variant contents
	GeneratedAt string `json:"generated_at"` // RFC 3339
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		Version: 1,
		Entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Load reads a ledger file. A missing file yields an empty ledger.
func Load(fsys storage.FileSystem, path string) (*Ledger, error) {
	l := New()

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	if l.Entries == nil {
		l.Entries = make(map[string]Entry)
	}
	return l, nil
}

// Save writes the ledger to path.
func (l *Ledger) Save(fsys storage.FileSystem, path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := fsys.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// Record stores or replaces the entry for variant.
func (l *Ledger) Record(variant, source string, sourceMtime int64, width, height int, content []byte) {
	now := l.now
	if now == nil {
		now = time.Now
	}
	l.Entries[variant] = Entry{
		Variant:     variant,
		Source:      source,
		SourceMtime: sourceMtime,
		Width:       width,
		Height:      height,
		Checksum:    storage.Checksum(content),
		GeneratedAt: now().UTC().Format(time.RFC3339),
	}
}

// Get retrieves the entry for variant.
func (l *Ledger) Get(variant string) (Entry, bool) {
	e, ok := l.Entries[variant]
	return e, ok
}

// Remove deletes the entry for variant.
func (l *Ledger) Remove(variant string) {
	delete(l.Entries, variant)
}

// All returns the entries sorted by variant path.
func (l *Ledger) All() []Entry {
	out := make([]Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variant < out[j].Variant })
	return out
}
