package meter

import (
	"sync"
	"time"
)

type Cache struct {
	data *Data
	sync.RWMutex
}

func (c *Cache) Get() *Data {
	c.RLock()
	defer c.RUnlock()
	return c.data
}

func (c *Cache) Set(d *Data) {
	c.Lock()
	c.data = d
	c.Unlock()
}

// Fresh returns the cached data only if it is newer than maxAge, so a
// silent meter does not keep blocking charge starts forever.
func (c *Cache) Fresh(now time.Time, maxAge time.Duration) *Data {
	c.RLock()
	defer c.RUnlock()
	if c.data == nil {
		return nil
	}
	if now.Sub(c.data.Time) > maxAge {
		return nil
	}
	return c.data
}
