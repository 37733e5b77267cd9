package main

import (
	"mime"
	"time"

	"github.com/valyala/fasthttp"
)

// this is str(datetime.now()) for people who grew up on CGI scripts
const timestampLayout = "2006-01-02 15:04:05.000000"

const formURLEncoded = "application/x-www-form-urlencoded"

type field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// report is everything one invocation found out about its request.
// Display strings already have the placeholder substituted.
type report struct {
	Variant   string
	RequestID string
	Time      time.Time

	Method        string
	QueryString   string
	ServerName    string
	ServerPort    string
	ScriptName    string
	ContentLength string

	IsPost      bool
	Declared    int
	Payload     []byte
	PayloadErr  error
	QueryFields []field
	FormFields  []field

	Dir *dirProbe
}

func gatherReport(env Env, placeholder string) *report {
	return &report{
		Method:        env.Get(envRequestMethod, placeholder),
		QueryString:   env.Get(envQueryString, placeholder),
		ServerName:    env.Get(envServerName, placeholder),
		ServerPort:    env.Get(envServerPort, placeholder),
		ScriptName:    env.Get(envScriptName, placeholder),
		ContentLength: env.Get(envContentLength, "0"),
		IsPost:        env.IsPost(),
		Declared:      env.ContentLength(),
		QueryFields:   parseFields(env.Get(envQueryString, "")),
	}
}

func (r *report) HasPayload() bool {
	return len(r.Payload) > 0
}

func (r *report) Timestamp() string {
	return r.Time.Format(timestampLayout)
}

// decodeForm fills FormFields when the payload is a urlencoded form.
// Anything else (or a content type we can't parse) is left as raw bytes only.
func (r *report) decodeForm(contentType string) {
	if !r.HasPayload() {
		return
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != formURLEncoded {
		return
	}
	r.FormFields = parseFieldsBytes(r.Payload)
}

func parseFields(s string) []field {
	if s == "" {
		return nil
	}
	return parseFieldsBytes([]byte(s))
}

func parseFieldsBytes(b []byte) []field {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	args.ParseBytes(b)
	if args.Len() == 0 {
		return nil
	}
	fields := make([]field, 0, args.Len())
	args.VisitAll(func(key, value []byte) {
		// args is recycled on return, so copy out of its buffers
		fields = append(fields, field{Key: string(key), Value: string(value)})
	})
	return fields
}
