package main

import (
	"bytes"
	"fmt"
	"io"
)

// readBody reads exactly n bytes from r. The host may keep stdin open past
// the body, so this must never read to EOF. The buffer grows with what
// actually arrives instead of trusting n for an up-front allocation.
//
// If r ends early, the bytes that did arrive are returned together with an
// error wrapping io.ErrUnexpectedEOF.
func readBody(r io.Reader, n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, int64(n))
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return buf.Bytes(), fmt.Errorf("read %d of %d body bytes: %w", got, n, err)
	}
	return buf.Bytes(), nil
}
