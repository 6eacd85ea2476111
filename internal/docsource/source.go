// Package docsource provides read access to the document corpus that
// agents search and parse. The coordinator never touches the filesystem;
// agents go through a Provider.
package docsource

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Descriptor identifies one document in the corpus.
type Descriptor struct {
	// Path is the absolute path to the document.
	Path string
	// Name is the base file name.
	Name string
	// Ext is the lowercase file extension, including the dot.
	Ext string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the last modification time.
	ModTime time.Time
}

// Provider exposes the document corpus to agents.
type Provider interface {
	// List returns descriptors for every regular file under dir,
	// recursively, sorted by path.
	List(ctx context.Context, dir string) ([]Descriptor, error)
	// Read returns the raw contents of the described document.
	Read(ctx context.Context, d Descriptor) ([]byte, error)
}

// DirSource is a Provider over a local directory tree. Listings are cached
// until the watcher (if attached) observes a change under the root.
type DirSource struct {
	root string

	mu    sync.Mutex
	cache map[string][]Descriptor // dir -> cached listing
}

// NewDirSource creates a DirSource rooted at the given directory.
func NewDirSource(root string) *DirSource {
	return &DirSource{
		root:  root,
		cache: make(map[string][]Descriptor),
	}
}

// Root returns the corpus root directory.
func (s *DirSource) Root() string {
	return s.root
}

// List implements Provider. An empty dir lists the root.
func (s *DirSource) List(ctx context.Context, dir string) ([]Descriptor, error) {
	if dir == "" {
		dir = s.root
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.root, dir)
	}

	s.mu.Lock()
	if cached, ok := s.cache[dir]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	var docs []Descriptor
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			// Skip hidden directories like .git.
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		docs = append(docs, Descriptor{
			Path:    path,
			Name:    d.Name(),
			Ext:     strings.ToLower(filepath.Ext(d.Name())),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	s.mu.Lock()
	s.cache[dir] = docs
	s.mu.Unlock()

	return docs, nil
}

// Read implements Provider.
func (s *DirSource) Read(ctx context.Context, d Descriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(d.Path)
}

// Invalidate drops all cached listings. Called by the watcher when the
// corpus changes on disk.
func (s *DirSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string][]Descriptor)
}
