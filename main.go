package main

import (
	"io"
	"os"

	"github.com/jonboulle/clockwork"
)

func main() {
	run(os.Args[0], os.Environ(), os.Stdin, os.Stdout, os.Stderr)
}

// run never decides the exit status: the host only gets a complete response
// on stdout, and anything that went wrong is in that response or on stderr.
func run(argv0 string, environ []string, stdin io.Reader, stdout, stderr io.Writer) {
	cfg, cfgErr := loadConfig()
	logger, logErr := newLogger(cfg, stderr)

	h := newHandler(cfg, argv0, clockwork.NewRealClock(), logger)
	if cfgErr != nil {
		h.log.WithError(cfgErr).Warn("falling back to default settings")
	}
	if logErr != nil {
		h.log.WithError(logErr).Warn("falling back to info logging")
	}

	if err := h.serve(NewEnv(environ), stdin, stdout); err != nil {
		h.log.WithError(err).Error("response to host is incomplete")
	}
}
