package cli

import (
	"bytes"

	"github.com/owzim/blick/internal/imaging"
	"github.com/owzim/blick/internal/ledger"
	"github.com/owzim/blick/internal/storage"
)

// CheckStatus describes the state of a single recorded variant.
type CheckStatus int

const (
	CheckOK       CheckStatus = iota // Variant exists and matches its source
	CheckMissing                     // Recorded but the variant file is gone
	CheckStale                       // Source or variant changed since generation
	CheckOrphaned                    // Source image no longer exists
	CheckFailed                      // Variant file holds an error marker
)

func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "ok"
	case CheckMissing:
		return "missing"
	case CheckStale:
		return "stale"
	case CheckOrphaned:
		return "orphaned"
	case CheckFailed:
		return "failed"
	}
	return "unknown"
}

// CheckResult holds the outcome of checking one ledger entry.
type CheckResult struct {
	Entry  ledger.Entry
	Status CheckStatus
}

// CheckVariants validates all ledger entries against the filesystem.
// This is a pure function: it reads state through its arguments, not globals.
func CheckVariants(l *ledger.Ledger, fs storage.FileSystem) []CheckResult {
	entries := l.All()
	results := make([]CheckResult, 0, len(entries))

	for _, e := range entries {
		results = append(results, CheckResult{Entry: e, Status: checkEntry(e, fs)})
	}

	return results
}

func checkEntry(e ledger.Entry, fs storage.FileSystem) CheckStatus {
	sourceExists, sourceMtime := fs.Stat(e.Source)
	if !sourceExists {
		return CheckOrphaned
	}

	content, err := fs.ReadFile(e.Variant)
	if err != nil {
		return CheckMissing
	}

	switch {
	case bytes.HasPrefix(content, []byte(imaging.InvalidImageData)):
		return CheckFailed
	case sourceMtime != e.SourceMtime, storage.Checksum(content) != e.Checksum:
		return CheckStale
	}
	return CheckOK
}
