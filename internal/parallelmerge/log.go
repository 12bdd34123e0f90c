package parallelmerge

import (
	"log"
	"os"
)

// Verbose gates this package's diagnostic logging — off by default.
// Useful for watching the work-sharing heuristic's actual yield
// decisions during tuning, without it costing anything when off.
var Verbose bool

var logger = log.New(os.Stderr, "lcpmerge: ", log.LstdFlags)
