// Package cache models a data cache for RISC-16 using Akita cache
// components.
//
// The model tracks tags only. Data memory stays authoritative, so attaching
// a cache never changes architectural results or the cycle count; it only
// reports how the program's loads and stores would behave in a small
// set-associative cache.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes
	Size int `yaml:"size"`
	// Associativity (number of ways)
	Associativity int `yaml:"associativity"`
	// BlockSize in bytes (cache line size)
	BlockSize int `yaml:"blockSize"`
	// HitLatency in cycles
	HitLatency uint64 `yaml:"hitLatency"`
	// MissLatency in cycles (includes memory access time)
	MissLatency uint64 `yaml:"missLatency"`
}

// DefaultConfig returns a cache sized for the 1 KiB RISC-16 data memory:
// 256 B, 2-way, 16 B lines.
func DefaultConfig() Config {
	return Config{
		Size:          256,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// NumSets returns the number of sets implied by the configuration, or 0 if
// the configuration is unusable.
func (c Config) NumSets() int {
	if c.Associativity <= 0 || c.BlockSize <= 0 {
		return 0
	}
	return c.Size / (c.Associativity * c.BlockSize)
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access would take.
	Latency uint64
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64 // dirty blocks evicted or flushed

	// AccessCycles is the sum of the latencies of all accesses.
	AccessCycles uint64
}

// HitRate returns the fraction of accesses that hit, or 0 if there were no
// accesses.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache is a tag-only write-back, write-allocate cache built on an Akita
// directory with LRU replacement.
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	stats     Statistics
}

// New creates a new cache with the given configuration. A configuration
// with fewer than one set is rounded up to a single set.
func New(config Config) *Cache {
	numSets := max(config.NumSets(), 1)

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
	}
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

func (c *Cache) blockAddr(addr uint64) uint64 {
	return (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
}

// Read records a load from addr.
func (c *Cache) Read(addr uint64) AccessResult {
	c.stats.Reads++
	return c.access(addr, false)
}

// Write records a store to addr.
func (c *Cache) Write(addr uint64) AccessResult {
	c.stats.Writes++
	return c.access(addr, true)
}

// ObserveRead records a load. It lets the cache watch an execution unit's
// data accesses.
func (c *Cache) ObserveRead(addr uint16) {
	c.Read(uint64(addr))
}

// ObserveWrite records a store.
func (c *Cache) ObserveWrite(addr uint16) {
	c.Write(uint64(addr))
}

func (c *Cache) access(addr uint64, isWrite bool) AccessResult {
	blockAddr := c.blockAddr(addr)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.stats.AccessCycles += c.config.HitLatency
		c.directory.Visit(block)
		if isWrite {
			block.IsDirty = true
		}

		return AccessResult{Hit: true, Latency: c.config.HitLatency}
	}

	c.stats.Misses++
	c.stats.AccessCycles += c.config.MissLatency

	return c.handleMiss(blockAddr, isWrite)
}

// handleMiss allocates a block for blockAddr, replacing the LRU victim.
func (c *Cache) handleMiss(blockAddr uint64, isWrite bool) AccessResult {
	result := AccessResult{Latency: c.config.MissLatency}

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	if victim.IsValid {
		c.stats.Evictions++

		if victim.IsDirty {
			c.stats.Writebacks++
		}
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite
	c.directory.Visit(victim)

	return result
}

// Flush counts a writeback for every dirty block and invalidates all
// blocks.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty {
				c.stats.Writebacks++
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
