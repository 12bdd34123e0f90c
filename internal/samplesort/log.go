package samplesort

import (
	"log"
	"os"
)

// Verbose gates this package's diagnostic logging — off by default.
var Verbose bool

var logger = log.New(os.Stderr, "samplesort: ", log.LstdFlags)
