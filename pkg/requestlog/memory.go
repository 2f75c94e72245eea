package requestlog

import (
	"strings"
	"sync"
)

// MemoryStore is a bounded, in-process, thread-safe Store: a ring buffer of
// the most recent entries plus live Subscribe channels. It is the default
// Store an Endpoint is wired to when no external sink (file, database,
// forwarding) is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
	maxCap  int
	subs    []Subscriber
}

// NewMemoryStore returns a MemoryStore holding at most maxCap entries,
// evicting the oldest entry once full. maxCap <= 0 means unbounded.
func NewMemoryStore(maxCap int) *MemoryStore {
	return &MemoryStore{
		entries: make([]*Entry, 0),
		maxCap:  maxCap,
	}
}

// Log implements Logger.
func (s *MemoryStore) Log(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxCap > 0 && len(s.entries) >= s.maxCap {
		s.entries = s.entries[1:]
	}
	s.entries = append(s.entries, entry)

	for _, sub := range s.subs {
		select {
		case sub <- entry:
		default:
		}
	}
}

// Get implements Store.
func (s *MemoryStore) Get(id string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// List implements Store.
func (s *MemoryStore) List(filter *Filter) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter != nil && !matches(e, filter) {
			continue
		}
		result = append(result, e)
	}

	if filter != nil && filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*Entry{}
		}
		result = result[filter.Offset:]
	}
	if filter != nil && filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result
}

func matches(e *Entry, filter *Filter) bool {
	if filter.Method != "" && e.Method != filter.Method {
		return false
	}
	if filter.Path != "" && !strings.HasPrefix(e.Path, filter.Path) {
		return false
	}
	if filter.StatusCode != 0 && e.ResponseStatus != filter.StatusCode {
		return false
	}
	if filter.Operation != "" && (e.SOAP == nil || e.SOAP.Operation != filter.Operation) {
		return false
	}
	if filter.HasError != nil && (e.Error != "") != *filter.HasError {
		return false
	}
	return true
}

// Clear implements Store.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

// Count implements Store.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Subscribe implements SubscribableStore.
func (s *MemoryStore) Subscribe() (Subscriber, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := make(Subscriber, 100)
	s.subs = append(s.subs, sub)
	return sub, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(sub)
				return
			}
		}
	}
}

var (
	_ Logger            = (*MemoryStore)(nil)
	_ Store             = (*MemoryStore)(nil)
	_ SubscribableStore = (*MemoryStore)(nil)
)
