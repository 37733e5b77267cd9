package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"mime"

	"github.com/goccy/go-json"
	"github.com/munnerz/goautoneg"
)

const contentTypeJSON = "application/json"

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type renderer interface {
	ContentType() string
	Render(w io.Writer, r *report) error
	// RenderError is the fallback when Render fails after the head is out,
	// so it has to match ContentType too.
	RenderError(w io.Writer, err error) error
}

// chooseRenderer settles the body format before anything is written.
// An explicit CGIREPORT_FORMAT wins; otherwise HTTP_ACCEPT is negotiated
// between the configured type and JSON, and no usable Accept means the configured type.
func chooseRenderer(cfg Config, env Env) renderer {
	htmlR := &htmlRenderer{contentType: cfg.ResponseType, tmpl: pages}
	switch cfg.Format {
	case formatJSON:
		return jsonRenderer{}
	case formatHTML:
		return htmlR
	}

	accept, ok := env.Lookup(envHTTPAccept)
	if !ok || accept == "" {
		return htmlR
	}
	if negotiate(accept, mediaType(cfg.ResponseType)) == contentTypeJSON {
		return jsonRenderer{}
	}
	return htmlR
}

// negotiate runs before the head is written and Accept is client-controlled,
// so a panic in there must not take the response down with it.
func negotiate(accept, preferred string) (chosen string) {
	defer func() {
		if recover() != nil {
			chosen = ""
		}
	}()
	return goautoneg.Negotiate(accept, []string{preferred, contentTypeJSON})
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mt
}

type htmlRenderer struct {
	contentType string
	tmpl        *template.Template
}

func (h *htmlRenderer) ContentType() string { return h.contentType }

func (h *htmlRenderer) Render(w io.Writer, r *report) error {
	// render to a buffer first so a template error doesn't leave half a page behind
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, r.Variant, r); err != nil {
		return fmt.Errorf("rendering %s page: %w", r.Variant, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (h *htmlRenderer) RenderError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "<!DOCTYPE html>\n<html><body>\n<p id=\"error\">Error: %s</p>\n</body></html>\n",
		template.HTMLEscapeString(err.Error()))
	return werr
}

type jsonRenderer struct{}

type jsonPost struct {
	Declared int     `json:"declared"`
	Received int     `json:"received"`
	Data     string  `json:"data"`
	Form     []field `json:"form,omitempty"`
	Error    string  `json:"error,omitempty"`
}

type jsonDirectory struct {
	WorkDir   string `json:"workdir"`
	ScriptDir string `json:"scriptdir"`
	File      string `json:"file"`
	Opened    bool   `json:"opened"`
	Error     string `json:"error,omitempty"`
}

type jsonReport struct {
	Variant       string         `json:"variant"`
	RequestID     string         `json:"request_id"`
	Time          string         `json:"time"`
	Method        string         `json:"method"`
	QueryString   string         `json:"query_string"`
	ServerName    string         `json:"server_name"`
	ServerPort    string         `json:"server_port"`
	ScriptName    string         `json:"script_name"`
	ContentLength string         `json:"content_length"`
	Query         []field        `json:"query,omitempty"`
	Post          *jsonPost      `json:"post,omitempty"`
	Directory     *jsonDirectory `json:"directory,omitempty"`
}

func (jsonRenderer) ContentType() string { return contentTypeJSON }

func (jsonRenderer) Render(w io.Writer, r *report) error {
	out := jsonReport{
		Variant:       r.Variant,
		RequestID:     r.RequestID,
		Time:          r.Timestamp(),
		Method:        r.Method,
		QueryString:   r.QueryString,
		ServerName:    r.ServerName,
		ServerPort:    r.ServerPort,
		ScriptName:    r.ScriptName,
		ContentLength: r.ContentLength,
		Query:         r.QueryFields,
	}
	if r.IsPost {
		out.Post = &jsonPost{
			Declared: r.Declared,
			Received: len(r.Payload),
			Data:     string(r.Payload),
			Form:     r.FormFields,
		}
		if r.PayloadErr != nil {
			out.Post.Error = r.PayloadErr.Error()
		}
	}
	if d := r.Dir; d != nil {
		out.Directory = &jsonDirectory{
			WorkDir:   d.WorkDir,
			ScriptDir: d.ScriptDir,
			File:      d.File,
			Opened:    d.Opened(),
		}
		if d.OpenErr != nil {
			out.Directory.Error = d.OpenErr.Error()
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func (jsonRenderer) RenderError(w io.Writer, err error) error {
	b, merr := json.Marshal(map[string]string{"error": err.Error()})
	if merr != nil {
		return merr
	}
	_, werr := w.Write(append(b, '\n'))
	return werr
}
