// Package cache provides domain.ReportCache backends: an in-process LRU and
// Redis.
package cache

import (
	"context"
	"sync"

	"github.com/couchcryptid/weather-comfort-service/internal/domain"
)

// LRU is a thread-safe in-memory least-recently-used report cache.
type LRU struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.DayReport
	prev  *entry
	next  *entry
}

// NewLRU creates an LRU holding at most maxEntries reports.
func NewLRU(maxEntries int) *LRU {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &LRU{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// Get never returns an error.
func (c *LRU) Get(_ context.Context, key string) (domain.DayReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.DayReport{}, false, nil
	}
	c.moveToFront(e)
	return e.value, true, nil
}

// Put never returns an error.
func (c *LRU) Put(_ context.Context, key string, report domain.DayReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = report
		c.moveToFront(e)
		return nil
	}

	e := &entry{key: key, value: report}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
	return nil
}

// Len returns the number of cached reports.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *LRU) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *LRU) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *LRU) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *LRU) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
