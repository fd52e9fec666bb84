package upload

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RecordCache keeps recently read FileRecords in memory. Records are written
// once and never modified, so entries only leave by size or TTL.
type RecordCache struct {
	lru *expirable.LRU[string, *FileRecord]
}

func NewRecordCache(size int, ttl time.Duration) *RecordCache {
	if size <= 0 {
		size = 1024
	}
	return &RecordCache{lru: expirable.NewLRU[string, *FileRecord](size, nil, ttl)}
}

func (c *RecordCache) Get(id string) (*FileRecord, bool) {
	rec, ok := c.lru.Get(id)
	if ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return rec, true
	}
	cacheLookups.WithLabelValues("miss").Inc()
	return nil, false
}

func (c *RecordCache) Add(rec *FileRecord) {
	c.lru.Add(rec.ID, rec)
}

func (c *RecordCache) Len() int {
	return c.lru.Len()
}
