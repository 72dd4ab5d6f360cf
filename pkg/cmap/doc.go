// Package cmap provides a concurrent map split into independently locked
// shards.
//
// Keys are spread over the shards with hash/maphash, so goroutines working
// on different keys rarely contend for the same lock.
//
//	m := cmap.New[string, *rate.Limiter]()
//	lim, _ := m.GetOrCompute(ip, newLimiter)
//
// Range and DeleteFunc lock one shard at a time; they do not observe a
// consistent snapshot of the whole map.
package cmap
