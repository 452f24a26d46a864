package logger

import (
	"io"
	"log"
	"os"
)

var (
	Info    = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Warning = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error   = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug   = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	HTTP    = log.New(os.Stdout, "HTTP: ", log.Ldate|log.Ltime)
)

// Setup points every logger at its output. Debug output is only enabled
// when LOG_DEBUG is set.
func Setup() {
	SetOutput(os.Stdout, os.Stderr)
	if os.Getenv("LOG_DEBUG") != "" {
		Debug.SetOutput(os.Stdout)
	}
}

// SetOutput redirects the loggers, mostly useful to silence them in tests.
func SetOutput(out, errOut io.Writer) {
	Info.SetOutput(out)
	Warning.SetOutput(out)
	HTTP.SetOutput(out)
	Error.SetOutput(errOut)
}
