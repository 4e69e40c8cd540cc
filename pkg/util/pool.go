package util

import "runtime"

// GetOptimalPoolSize returns the size used for both parser pools and the
// analysis worker pool.
//
// Formula: min(max(runtime.NumCPU() * 2, 4), 32)
//
// Parsing is CGO-heavy, so twice the core count keeps workers busy while
// others sit in C. The two pools must agree, otherwise workers block waiting
// for a free parser.
func GetOptimalPoolSize() int {
	n := runtime.NumCPU() * 2
	if n < 4 {
		n = 4
	}
	if n > 32 {
		n = 32
	}
	return n
}

// WorkerCount resolves a configured worker count. Zero means "pick for me",
// negative values and one both mean sequential.
func WorkerCount(configured int) int {
	switch {
	case configured == 0:
		return GetOptimalPoolSize()
	case configured < 1:
		return 1
	default:
		return configured
	}
}
