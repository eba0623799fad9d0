// Package cache persists per-file check results between runs. Entries
// are keyed by the file's content hash combined with the selection
// fingerprint, so any change to the file or to the effective rule
// configuration misses the cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"unsound/internal/diag"
	"unsound/internal/source"
)

// Increment when the payload format changes.
const schemaVersion uint16 = 2

// DiskCache stores check results on disk. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// payloadNote mirrors diag.Note without the span's file identity:
// FileIDs are not stable across runs, so spans are stored as raw byte
// offsets and rebound on load. Message-only notes carry no span at all
// and must come back with a zero span, not one bound to the file.
type payloadNote struct {
	HasSpan bool
	Start   uint32
	End     uint32
	Msg     string
}

type payloadDiagnostic struct {
	Severity uint8
	Rule     string
	Message  string
	Start    uint32
	End      uint32
	Notes    []payloadNote
}

// Payload is the cached result of checking one file.
type Payload struct {
	Schema      uint16
	Diagnostics []payloadDiagnostic
}

// Open initializes a disk cache under the standard user cache
// location.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Key derives the cache key for a file under a selection fingerprint.
func Key(contentHash, selectionFingerprint [32]byte) [32]byte {
	h := sha256.New()
	h.Write(contentHash[:])
	h.Write(selectionFingerprint[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, "files", hex.EncodeToString(key[:])+".mp")
}

// Put stores the diagnostics for a file.
func (c *DiskCache) Put(key [32]byte, diags []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := Payload{Schema: schemaVersion}
	for _, d := range diags {
		pd := payloadDiagnostic{
			Severity: uint8(d.Severity),
			Rule:     d.Rule,
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			pd.Notes = append(pd.Notes, payloadNote{
				HasSpan: n.Span != (source.Span{}),
				Start:   n.Span.Start,
				End:     n.Span.End,
				Msg:     n.Msg,
			})
		}
		payload.Diagnostics = append(payload.Diagnostics, pd)
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get loads the diagnostics for a file, rebinding spans to the given
// FileID. A schema mismatch counts as a miss.
func (c *DiskCache) Get(key [32]byte, file source.FileID) ([]diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != schemaVersion {
		return nil, false, nil
	}

	out := make([]diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, pd := range payload.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(pd.Severity),
			Rule:     pd.Rule,
			Message:  pd.Message,
			Primary:  source.Span{File: file, Start: pd.Start, End: pd.End},
		}
		for _, n := range pd.Notes {
			note := diag.Note{Msg: n.Msg}
			if n.HasSpan {
				note.Span = source.Span{File: file, Start: n.Start, End: n.End}
			}
			d.Notes = append(d.Notes, note)
		}
		out = append(out, d)
	}
	return out, true, nil
}

// DropAll removes every cached entry, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "files"))
}
