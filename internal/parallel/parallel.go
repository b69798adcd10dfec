// Package parallel splits row-oriented numeric loops across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
	MinWork    int  // Minimum work units (e.g. multiply-adds) per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinWork:    1 << 14,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{}
}

// Rows executes f(row) for row in [0, rows). rowCost is the approximate work
// per row; it decides how many rows each goroutine receives. Each row index is
// visited exactly once, so f may write to disjoint per-row output without
// locking.
func Rows(rows, rowCost int, f func(row int), cfg Config) {
	workers := cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	rowCost = max(rowCost, 1)
	total := rows * rowCost
	if !cfg.Enabled || workers == 1 || total < 2*cfg.MinWork {
		for r := 0; r < rows; r++ {
			f(r)
		}
		return
	}

	minRows := max((cfg.MinWork+rowCost-1)/rowCost, 1)
	chunk := max((rows+workers-1)/workers, minRows)

	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for r := s; r < e; r++ {
				f(r)
			}
		}(start, end)
	}
	wg.Wait()
}
