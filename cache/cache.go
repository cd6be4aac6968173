package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store caches rendered article fragments on disk so a published article is
// rendered once per edit instead of once per request. Files live under
// root/articles as slug_hash.html; the hash keys the file to the slug so a
// renamed article never reads a stale neighbour's fragment.
type Store struct {
	root   string
	maxAge time.Duration
}

func NewStore(root string, maxAge time.Duration) *Store {
	return &Store{root: root, maxAge: maxAge}
}

func (s *Store) dir() string {
	return filepath.Join(s.root, "articles")
}

func (s *Store) path(slug string) string {
	hash := xxhash.Sum64String(slug)
	return filepath.Join(s.dir(), fmt.Sprintf("%s_%016x.html", slug, hash))
}

// Read returns the cached fragment for slug if present and fresh.
func (s *Store) Read(slug string) (string, bool) {
	path := s.path(slug)

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if time.Since(info.ModTime()) > s.maxAge {
		return "", false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(content), true
}

// Write stores a rendered fragment for slug, creating the cache directory on
// first use.
func (s *Store) Write(slug, html string) error {
	if err := os.MkdirAll(s.dir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path(slug), []byte(html), 0644)
}

// Invalidate removes the cached fragment for slug. It also sweeps any file
// left under an old hash for the same slug prefix, which covers a slug that
// was renamed and renamed back. Missing files are not an error.
func (s *Store) Invalidate(slug string) error {
	err := os.Remove(s.path(slug))
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	matches, err := filepath.Glob(filepath.Join(s.dir(), slug+"_*.html"))
	if err != nil {
		return nil
	}
	for _, match := range matches {
		os.Remove(match)
	}
	return nil
}

// Clear drops every cached fragment.
func (s *Store) Clear() error {
	return os.RemoveAll(s.dir())
}

// Sweep removes fragments older than the store's max age. Run it
// opportunistically; a missed sweep only costs disk.
func (s *Store) Sweep() error {
	return filepath.Walk(s.dir(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		if time.Since(info.ModTime()) > s.maxAge {
			os.Remove(path)
		}
		return nil
	})
}
