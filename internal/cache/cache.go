package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const lockName = ".lock"

// Entry represents a cached review reply.
type Entry struct {
	Key        string    `json:"key"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Reply      string    `json:"reply"`
	TokensUsed int       `json:"tokensUsed,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	TTL        int       `json:"ttl"`
}

// Cache provides file-based caching for review replies. Writes go through a
// directory-wide flock and a temp-file rename so concurrent runs never see a
// partial entry.
type Cache struct {
	dir        string
	ttlSeconds int
	enabled    bool
	now        func() time.Time
}

// New creates a new Cache. If dir is empty, uses the default cache directory.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false, now: time.Now}, nil
	}
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:        dir,
		ttlSeconds: ttlSeconds,
		enabled:    true,
		now:        time.Now,
	}, nil
}

// Get retrieves a live entry by key. Expired or corrupt entries miss.
func (c *Cache) Get(key string) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	lock := flock.New(c.lockPath())
	if err := lock.RLock(); err != nil {
		return Entry{}, false
	}
	defer lock.Unlock()

	entry, err := readEntry(c.entryPath(key))
	if err != nil || c.expired(entry) {
		return Entry{}, false
	}
	return entry, true
}

// Put stores a reply in the cache.
func (c *Cache) Put(key string, entry Entry) error {
	if !c.enabled {
		return nil
	}
	entry.Key = key
	entry.CreatedAt = c.now()
	entry.TTL = c.ttlSeconds
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	lock := flock.New(c.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking cache: %w", err)
	}
	defer lock.Unlock()
	return atomicWrite(c.entryPath(key), data)
}

// Clear removes all cache entries and reports how many were deleted.
func (c *Cache) Clear() (int, error) {
	if !c.enabled || c.dir == "" {
		return 0, nil
	}
	lock := flock.New(c.lockPath())
	if err := lock.Lock(); err != nil {
		return 0, fmt.Errorf("locking cache: %w", err)
	}
	defer lock.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	var removed int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			if err := os.Remove(filepath.Join(c.dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// List returns every readable entry, newest first. Expired entries are
// included; use Expired to tell them apart.
func (c *Cache) List() ([]Entry, error) {
	if !c.enabled || c.dir == "" {
		return nil, nil
	}
	lock := flock.New(c.lockPath())
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("locking cache: %w", err)
	}
	defer lock.Unlock()

	names, err := c.entryNames()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, name := range names {
		entry, err := readEntry(filepath.Join(c.dir, name))
		if err != nil {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Expired reports whether e is past the cache TTL.
func (c *Cache) Expired(e Entry) bool {
	return c.expired(e)
}

// Prune deletes expired and unreadable entries and reports how many were
// removed. Live entries are kept.
func (c *Cache) Prune() (int, error) {
	if !c.enabled || c.dir == "" {
		return 0, nil
	}
	lock := flock.New(c.lockPath())
	if err := lock.Lock(); err != nil {
		return 0, fmt.Errorf("locking cache: %w", err)
	}
	defer lock.Unlock()

	names, err := c.entryNames()
	if err != nil {
		return 0, err
	}
	var removed int
	for _, name := range names {
		path := filepath.Join(c.dir, name)
		entry, err := readEntry(path)
		if err == nil && !c.expired(entry) {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

func (c *Cache) entryNames() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Stats returns cache statistics.
type Stats struct {
	Dir        string `json:"dir"`
	TTLSeconds int    `json:"ttlSeconds"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats returns information about the cache.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir, TTLSeconds: c.ttlSeconds}
	if !c.enabled || c.dir == "" {
		return stats, nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		entry, err := readEntry(filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		if c.expired(entry) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

func (c *Cache) expired(e Entry) bool {
	return c.ttlSeconds > 0 && c.now().Sub(e.CreatedAt) > time.Duration(c.ttlSeconds)*time.Second
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

// KeyFields lists everything that shapes a reply.
type KeyFields struct {
	Provider     string
	Model        string
	SystemPrompt string
	Document     string
	MaxTokens    int
	Temperature  float64
}

// BuildKey creates a cache key from f.
func BuildKey(f KeyFields) string {
	return HashKey(strings.Join([]string{
		f.Provider,
		f.Model,
		strconv.Itoa(f.MaxTokens),
		strconv.FormatFloat(f.Temperature, 'g', -1, 64),
		f.SystemPrompt,
		f.Document,
	}, "\x00"))
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *Cache) lockPath() string {
	return filepath.Join(c.dir, lockName)
}

func readEntry(path string) (Entry, error) {
	var entry Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	err = json.Unmarshal(data, &entry)
	return entry, err
}

// atomicWrite writes data to a temp file in the target directory and
// renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	tmp = nil
	return nil
}

// DefaultDir returns the platform-appropriate cache directory for critic.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "critic"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "critic"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "critic", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "critic", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "critic"), nil
	}
}
