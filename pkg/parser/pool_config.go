package parser

import (
	"github.com/gnana997/uicontext/pkg/util"
)

// getPoolSize returns the per-grammar parser count. It must not be smaller
// than the analysis worker count or workers stall waiting on parsers, so both
// derive from util.GetOptimalPoolSize.
func getPoolSize(override int) int {
	if override > 0 {
		return override
	}
	return util.GetOptimalPoolSize()
}
