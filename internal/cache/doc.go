// Package cache provides a small generic LRU map.
//
// The renderer uses it to remember attribute and uniform locations per
// program, so repeated lookups by name skip the driver.
//
//	c := cache.New[string, int32](64)
//	loc := c.GetOrCreate("time", func() int32 { return lookup("time") })
//
// A Cache is not safe for concurrent use; like every other renderer object
// it belongs to the goroutine that owns the GL context.
package cache
