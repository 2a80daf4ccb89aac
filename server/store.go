package server

import (
	"sort"
	"sync"

	"go.lsp.dev/protocol"
)

// store is a map keyed by document URI safe for concurrent use. Values are
// replaced whole, the last put wins.
type store[T any] struct {
	mu sync.RWMutex
	m  map[protocol.DocumentURI]T
}

func newStore[T any]() *store[T] {
	return &store[T]{m: make(map[protocol.DocumentURI]T)}
}

func (s *store[T]) get(u protocol.DocumentURI) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[u]
	return v, ok
}

func (s *store[T]) put(u protocol.DocumentURI, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[u] = v
}

func (s *store[T]) remove(u protocol.DocumentURI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, u)
}

// keys returns the stored URIs in sorted order.
func (s *store[T]) keys() []protocol.DocumentURI {
	s.mu.RLock()
	res := make([]protocol.DocumentURI, 0, len(s.m))
	for u := range s.m {
		res = append(res, u)
	}
	s.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
