package validate

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/swesmith-go/synthesis/internal/testlog"
)

// GoldCache memoizes the gold test report per image name, since running
// the full suite once against the unpatched tree is the same result for
// every candidate validated against that image. singleflight collapses
// concurrent first-time misses for the same tag into one compute call,
// so two workers racing to validate the first two candidates of a run
// never trigger two gold runs against each other.
type GoldCache struct {
	mu    sync.Mutex
	byTag map[string]testlog.Report
	group singleflight.Group
}

func NewGoldCache() *GoldCache {
	return &GoldCache{byTag: map[string]testlog.Report{}}
}

// Get returns the cached gold report for tag, computing and storing it
// via compute on first use.
func (c *GoldCache) Get(tag string, compute func() (testlog.Report, error)) (testlog.Report, error) {
	c.mu.Lock()
	if r, ok := c.byTag[tag]; ok {
		c.mu.Unlock()
		return r, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(tag, func() (interface{}, error) {
		c.mu.Lock()
		if r, ok := c.byTag[tag]; ok {
			c.mu.Unlock()
			return r, nil
		}
		c.mu.Unlock()
		r, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.byTag[tag] = r
		c.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(testlog.Report), nil
}
