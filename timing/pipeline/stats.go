package pipeline

import (
	"math"

	"github.com/sarchlab/risc16sim/timing/cache"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of load-use stall cycles.
	Stalls uint64
	// Flushes is the number of pipeline flushes caused by taken control
	// transfers.
	Flushes uint64
}

// CPI returns the cycles per instruction rounded to two decimals, or 0 if
// nothing has retired.
func (s Statistics) CPI() float64 {
	return round2(s.rawCPI())
}

// IPC returns the instructions per cycle rounded to two decimals, or 0 if
// the CPI is 0.
func (s Statistics) IPC() float64 {
	cpi := s.rawCPI()
	if cpi == 0 {
		return 0
	}
	return round2(1 / cpi)
}

func (s Statistics) rawCPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// round2 rounds half away from zero: 1.125 becomes 1.13.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CacheStatistics reports the data cache model, if one is attached.
type CacheStatistics struct {
	Enabled bool
	cache.Statistics
}
