package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"dogfarm/internal/ports/blob"
)

type entry struct {
	data        []byte
	contentType string
}

// Store es el bucket de media in-memory (dev/tests). Las URLs públicas
// apuntan a /media/{key}, que el router sirve desde este mismo store.
type Store struct {
	mu   sync.RWMutex
	objs map[string]entry
}

func NewStore() *Store {
	return &Store{objs: make(map[string]entry)}
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objs[key] = entry{data: b, contentType: contentType}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.RLock()
	e, ok := s.objs[key]
	s.mu.RUnlock()

	if !ok {
		return nil, "", blob.ErrNotFound
	}

	data := make([]byte, len(e.data))
	copy(data, e.data)
	return io.NopCloser(bytes.NewReader(data)), e.contentType, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	return nil
}

func (s *Store) PublicURL(key string) string {
	return "/media/" + key
}
