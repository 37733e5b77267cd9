package main

// this file implements the "child" half: one CGI request in, one response out

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

type handler struct {
	cfg       Config
	variant   string
	requestID string
	clock     clockwork.Clock
	log       *logrus.Entry
}

func newHandler(cfg Config, argv0 string, clock clockwork.Clock, logger *logrus.Logger) *handler {
	h := &handler{
		cfg:     cfg,
		variant: cfg.resolveVariant(argv0),
		clock:   clock,
	}
	// this runs before the head is out, so a broken entropy source must not panic
	id, err := uuid.NewRandom()
	if err == nil {
		h.requestID = id.String()
	}
	h.log = logger.WithFields(logrus.Fields{
		"request_id": h.requestID,
		"variant":    h.variant,
	})
	if err != nil {
		h.log.WithError(err).Warn("no request id, continuing without one")
	}
	return h
}

// serve runs one request: pick the format, write the head, read the body if
// this is a POST, then write the body. Once the head is out, every failure
// ends up in the body rather than aborting; the returned error only says the
// response could not be written to stdout.
func (h *handler) serve(env Env, stdin io.Reader, stdout io.Writer) (err error) {
	dumpEnv(h.log, env)

	rend := chooseRenderer(h.cfg, env)
	resp := newResponse(stdout, h.log)
	resp.setContentType(rend.ContentType())
	if h.requestID != "" {
		resp.setHeader("X-Request-Id", h.requestID)
	}
	if err := resp.writeHead(); err != nil {
		return fmt.Errorf("writing response head: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			h.log.WithField("panic", p).Error("handler panicked after the head was written")
			if rerr := rend.RenderError(resp, fmt.Errorf("internal error: %v", p)); rerr != nil && err == nil {
				err = rerr
			}
		}
		if ferr := resp.finish(); ferr != nil && err == nil {
			err = fmt.Errorf("flushing response: %w", ferr)
		}
	}()

	rep := h.gather(env, stdin)

	if rerr := rend.Render(resp, rep); rerr != nil {
		h.log.WithError(rerr).Error("rendering report")
		return rend.RenderError(resp, rerr)
	}
	return nil
}

func (h *handler) gather(env Env, stdin io.Reader) *report {
	rep := gatherReport(env, h.cfg.Placeholder)
	rep.Variant = h.variant
	rep.RequestID = h.requestID
	rep.Time = h.clock.Now()

	log := h.log.WithField("method", env.Method())
	if rep.IsPost {
		// no declared length means nothing is coming; don't touch stdin
		if rep.Declared > 0 {
			rep.Payload, rep.PayloadErr = readBody(stdin, rep.Declared)
			if rep.PayloadErr != nil {
				log.WithError(rep.PayloadErr).Warn("short request body")
			}
			rep.decodeForm(env.Get(envContentType, ""))
		}
		log.WithField("bytes", len(rep.Payload)).Debug("request body read")
	} else {
		log.Debug("no request body expected")
	}

	if h.variant == variantDirectory {
		rep.Dir = probeDirectory(h.cfg.ProbeFile)
		if rep.Dir.OpenErr != nil {
			log.WithError(rep.Dir.OpenErr).Info("probe file not accessible")
		}
	}
	return rep
}
