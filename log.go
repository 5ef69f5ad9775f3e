package examgen

import "log"

// Package-wide verbose flag, set once at startup
var verboseMode bool

// SetVerbose enables or disables verbose debug logging
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// VerboseLog writes to the standard logger only when verbose mode is on
func VerboseLog(format string, v ...interface{}) {
	if verboseMode {
		log.Printf(format, v...)
	}
}
