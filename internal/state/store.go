// Package state holds the findings accumulated during a watch session.
package state

import (
	"sort"
	"sync"
	"time"

	"github.com/five82/spiderweb/internal/classify"
)

// Group is one category's findings in display order.
type Group struct {
	Category classify.Category
	Values   []string
}

// Snapshot represents the findings available to the renderer.
type Snapshot struct {
	Groups      []Group
	Total       int
	LastUpdated time.Time
}

// Empty reports whether no findings have been recorded.
func (s Snapshot) Empty() bool {
	return len(s.Groups) == 0
}

// Store accumulates deduplicated findings per category. It only grows.
type Store struct {
	mu          sync.RWMutex
	order       []classify.Category
	rank        map[classify.Category]int
	sets        map[classify.Category]map[string]struct{}
	total       int
	lastUpdated time.Time
}

// NewStore returns an empty store that lists categories in the given order.
// Categories outside order are listed after it, by name.
func NewStore(order []classify.Category) *Store {
	rank := make(map[classify.Category]int, len(order))
	for i, c := range order {
		if _, ok := rank[c]; !ok {
			rank[c] = i
		}
	}
	return &Store{
		order: append([]classify.Category(nil), order...),
		rank:  rank,
		sets:  make(map[classify.Category]map[string]struct{}),
	}
}

// Record adds value under category and reports whether it was new.
func (s *Store) Record(category classify.Category, value string) bool {
	if value == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(category, value)
}

// RecordAll records every match and returns how many were new.
func (s *Store) RecordAll(matches []classify.Match) int {
	if len(matches) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, m := range matches {
		if m.Value == "" {
			continue
		}
		if s.recordLocked(m.Category, m.Value) {
			added++
		}
	}
	return added
}

func (s *Store) recordLocked(category classify.Category, value string) bool {
	set, ok := s.sets[category]
	if !ok {
		set = make(map[string]struct{})
		s.sets[category] = set
	}
	if _, dup := set[value]; dup {
		return false
	}
	set[value] = struct{}{}
	s.total++
	s.lastUpdated = time.Now()
	return true
}

// Len returns the number of distinct findings across all categories.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Snapshot returns a sorted copy of the current findings.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cats := make([]classify.Category, 0, len(s.sets))
	for c, set := range s.sets {
		if len(set) > 0 {
			cats = append(cats, c)
		}
	}
	sort.Slice(cats, func(i, j int) bool {
		ri, iKnown := s.rank[cats[i]]
		rj, jKnown := s.rank[cats[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return cats[i] < cats[j]
		}
	})

	snap := Snapshot{Total: s.total, LastUpdated: s.lastUpdated}
	for _, c := range cats {
		values := make([]string, 0, len(s.sets[c]))
		for v := range s.sets[c] {
			values = append(values, v)
		}
		sort.Strings(values)
		snap.Groups = append(snap.Groups, Group{Category: c, Values: values})
	}
	return snap
}
