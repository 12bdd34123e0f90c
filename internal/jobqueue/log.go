package jobqueue

import (
	"log"
	"os"
)

// Verbose gates this package's diagnostic logging; off by default so a
// production sort stays silent. Mirrors the teacher's per-package ad
// hoc logger convention rather than pulling in a structured-logging
// dependency no example in the pack uses.
var Verbose bool

var logger = log.New(os.Stderr, "jobqueue: ", log.LstdFlags)
