package processor

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Cache memoises a SurrenderLoader per file and parameters. An entry is
// reused while the file's modification time and size are unchanged. Errors
// are never cached.
type Cache struct {
	loader SurrenderLoader
	stat   func(path string) (stamp, error)

	mu       sync.RWMutex
	regional map[cacheKey]regionalEntry
	trend    map[cacheKey]trendEntry
}

type cacheKey struct {
	path   string
	params string
}

type stamp struct {
	modTime time.Time
	size    int64
}

type regionalEntry struct {
	stamp   stamp
	records []RegionalSurrenderRecord
}

type trendEntry struct {
	stamp   stamp
	records []YearlyTrendRecord
}

func NewCache(loader SurrenderLoader) *Cache {
	return &Cache{
		loader:   loader,
		stat:     statFile,
		regional: make(map[cacheKey]regionalEntry),
		trend:    make(map[cacheKey]trendEntry),
	}
}

func statFile(path string) (stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, err
	}
	return stamp{modTime: info.ModTime(), size: info.Size()}, nil
}

func (s stamp) same(o stamp) bool {
	return s.size == o.size && s.modTime.Equal(o.modTime)
}

func (c *Cache) LoadRegional(path string, year int) ([]RegionalSurrenderRecord, error) {
	key := cacheKey{path: path, params: fmt.Sprint(year)}
	st, err := c.stat(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	c.mu.RLock()
	e, ok := c.regional[key]
	c.mu.RUnlock()
	if ok && e.stamp.same(st) {
		return append([]RegionalSurrenderRecord(nil), e.records...), nil
	}

	records, err := c.loader.LoadRegional(path, year)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.regional[key] = regionalEntry{stamp: st, records: records}
	c.mu.Unlock()
	return append([]RegionalSurrenderRecord(nil), records...), nil
}

func (c *Cache) LoadYearlyTrend(path string, years []int) ([]YearlyTrendRecord, error) {
	key := cacheKey{path: path, params: fmt.Sprint(years)}
	st, err := c.stat(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}

	c.mu.RLock()
	e, ok := c.trend[key]
	c.mu.RUnlock()
	if ok && e.stamp.same(st) {
		return append([]YearlyTrendRecord(nil), e.records...), nil
	}

	records, err := c.loader.LoadYearlyTrend(path, years)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.trend[key] = trendEntry{stamp: st, records: records}
	c.mu.Unlock()
	return append([]YearlyTrendRecord(nil), records...), nil
}
