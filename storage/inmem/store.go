package inmem

import (
	"context"
	"sync"

	"github.com/junaidjmomin/classroom/core"
)

type store struct {
	mutex sync.RWMutex
	table map[string][]byte
}

// NewStore returns a core.Store kept in memory. Data is lost on exit.
func NewStore() core.Store {
	return &store{table: make(map[string][]byte)}
}

func (s *store) Load(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, ok := s.table[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (s *store) Save(_ context.Context, key string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.table[key] = append([]byte(nil), data...)
	return nil
}
