package main

// this file implements the write-once, forward-only CGI response on stdout

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

var crlf = []byte("\r\n")

// response buffers header fields until the first body byte (or an explicit
// writeHead), then emits "Key: value\r\n" lines and the blank line exactly once.
type response struct {
	header   *fasthttp.ResponseHeader
	bufw     *bufio.Writer
	log      *logrus.Entry
	headSent bool
}

func newResponse(w io.Writer, log *logrus.Entry) *response {
	return &response{
		header: &fasthttp.ResponseHeader{},
		bufw:   bufio.NewWriter(w),
		log:    log,
	}
}

func (r *response) setHeader(key, value string) {
	if r.headSent {
		// stdout is the client; whatever we'd add now would land in the body
		r.log.WithField("header", key).Warn("attempted to set header after the head was written")
		return
	}
	r.header.Set(key, value)
}

func (r *response) setContentType(contentType string) {
	if r.headSent {
		r.log.WithField("header", "Content-Type").Warn("attempted to set header after the head was written")
		return
	}
	r.header.SetContentType(contentType)
}

// writeHead emits the header block. Calls after the first are no-ops.
func (r *response) writeHead() error {
	if r.headSent {
		return nil
	}
	r.headSent = true

	var err error
	r.header.VisitAll(func(key, value []byte) {
		if err != nil {
			return
		}
		_, err = r.bufw.Write(appendHeaderLine(nil, key, value))
	})
	if err != nil {
		return err
	}
	if _, err := r.bufw.Write(crlf); err != nil {
		return err
	}
	// get the head out before we possibly block on stdin
	return r.bufw.Flush()
}

func (r *response) Write(p []byte) (int, error) {
	if !r.headSent {
		if err := r.writeHead(); err != nil {
			return 0, err
		}
	}
	return r.bufw.Write(p)
}

func (r *response) WriteString(s string) (int, error) {
	return r.Write([]byte(s))
}

// finish makes sure a head went out (even for an empty body) and flushes.
func (r *response) finish() error {
	if err := r.writeHead(); err != nil {
		return err
	}
	return r.bufw.Flush()
}

func appendHeaderLine(dst, key, value []byte) []byte {
	dst = append(dst, key...)
	dst = append(dst, ':', ' ')
	dst = append(dst, value...)
	return append(dst, crlf...)
}
