package main

// this file holds the request environment the CGI host hands us

import (
	"sort"
	"strconv"
	"strings"
)

const (
	envRequestMethod = "REQUEST_METHOD"
	envQueryString   = "QUERY_STRING"
	envContentLength = "CONTENT_LENGTH"
	envContentType   = "CONTENT_TYPE"
	envServerName    = "SERVER_NAME"
	envServerPort    = "SERVER_PORT"
	envScriptName    = "SCRIPT_NAME"
	envHTTPAccept    = "HTTP_ACCEPT"
)

// Env is a read-only snapshot of the request environment, taken once at startup.
type Env struct {
	vars map[string]string
}

// NewEnv builds an Env from "KEY=value" pairs (the shape of os.Environ).
// Entries without "=" are ignored; for duplicate keys the last one wins, same as getenv on most platforms.
func NewEnv(environ []string) Env {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		vars[kv[:i]] = kv[i+1:]
	}
	return Env{vars: vars}
}

// EnvFromMap copies m, so later changes to m are not visible through the Env.
func EnvFromMap(m map[string]string) Env {
	vars := make(map[string]string, len(m))
	for k, v := range m {
		vars[k] = v
	}
	return Env{vars: vars}
}

// Lookup is the comma-ok form of Get.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Get returns the value of key, or def if key is not set at all.
// A key that is set to the empty string returns the empty string.
func (e Env) Get(key, def string) string {
	if v, ok := e.vars[key]; ok {
		return v
	}
	return def
}

// Method is REQUEST_METHOD as the host set it, or "" when it did not.
// Methods are case-sensitive, so it is not normalized.
func (e Env) Method() string {
	return e.vars[envRequestMethod]
}

// IsPost reports whether this request may carry a body on stdin.
// Anything that isn't exactly POST (including no method at all) takes the GET path.
func (e Env) IsPost() bool {
	return e.Method() == "POST"
}

// ContentLength is CONTENT_LENGTH when it parses as a positive decimal, otherwise 0.
func (e Env) ContentLength() int {
	n, err := strconv.Atoi(strings.TrimSpace(e.vars[envContentLength]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
