// Package history keeps the most recent downloads, newest first, one entry
// per URL.
package history

import (
	"time"

	"github.com/samber/lo"
)

const MaxEntries = 10

type Entry struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

type Store interface {
	List() ([]Entry, error)
	Add(entry Entry) error
	Clear() error
	Close() error
}

// Prepend puts entry first, drops any older entry for the same URL and caps
// the result at limit.
func Prepend(list []Entry, entry Entry, limit int) []Entry {
	rest := lo.Filter(list, func(e Entry, _ int) bool {
		return e.URL != entry.URL
	})
	out := append([]Entry{entry}, rest...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Normalize enforces the list invariants on data that came from disk.
func Normalize(list []Entry, limit int) []Entry {
	out := lo.UniqBy(list, func(e Entry) string { return e.URL })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
