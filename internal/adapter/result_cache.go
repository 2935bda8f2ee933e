package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	m "github.com/sutaburosu/fledlint/internal/model"
)

// cacheFileName lives inside the reports directory next to report.yaml.
const cacheFileName = ".fledlint-cache.json"

// ResultCache is the incremental-run cache: per-file violations keyed by the
// file's content hash and the signature of the rule set that produced them.
// Unchanged files are served from cache instead of being re-scanned.
//
// Entries are stored as a flat JSON object to keep the file small and cheap
// to parse; the cache is advisory and any read error is treated as a miss.
type ResultCache interface {
	Load(dir m.Path) error
	Lookup(path m.Path, hash, signature string) ([]m.Violation, bool)
	Store(path m.Path, hash, signature string, violations []m.Violation)
	Save(dir m.Path) error
}

type cacheEntry struct {
	Hash       string        `json:"hash"`
	Signature  string        `json:"signature"`
	Violations []m.Violation `json:"violations,omitempty"`
}

type jsonResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewResultCache creates an empty in-memory cache backed by a JSON file.
func NewResultCache() ResultCache {
	return &jsonResultCache{entries: make(map[string]cacheEntry)}
}

// Load reads the cache file from the reports directory. A missing or
// unparsable cache file leaves the cache empty; that is a miss, not an error.
func (c *jsonResultCache) Load(dir m.Path) error {
	data, err := os.ReadFile(filepath.Join(string(dir), cacheFileName))
	if err != nil {
		return nil
	}

	entries := make(map[string]cacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	return nil
}

func (c *jsonResultCache) Lookup(path m.Path, hash, signature string) ([]m.Violation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path.Normalized()]
	if !ok || entry.Hash != hash || entry.Signature != signature {
		return nil, false
	}

	return entry.Violations, true
}

func (c *jsonResultCache) Store(path m.Path, hash, signature string, violations []m.Violation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path.Normalized()] = cacheEntry{
		Hash:       hash,
		Signature:  signature,
		Violations: violations,
	}
}

func (c *jsonResultCache) Save(dir m.Path) error {
	c.mu.Lock()
	data, err := json.Marshal(c.entries)
	c.mu.Unlock()

	if err != nil {
		return err
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(string(dir), cacheFileName), data, 0o600)
}
