// Package render turns a resolved commit range into an HTML release notes document.
//
// The document is produced with html/template so commit text is always escaped.
// The built-in template is embedded in the binary; a custom template file can be
// supplied instead and has access to the same helper functions. Rendering is
// deterministic: identical input yields byte-identical output.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ariel-frischer/releasenotes/internal/commitrange"
	"github.com/yuin/goldmark"
)

// DefaultTemplateName is the embedded template used when no custom template is configured.
const DefaultTemplateName = "release_notes.html.tmpl"

// DefaultDateFormat is used when Options.DateFormat is empty.
const DefaultDateFormat = "2006-01-02 15:04"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Document is the data handed to the template.
type Document struct {
	ReleaseName    string
	ReleaseComment string
	Changes        []commitrange.Commit
}

// Renderer produces release notes HTML.
type Renderer interface {
	Render(w io.Writer, doc Document) error
}

// Options configures an HTMLRenderer.
type Options struct {
	// TemplatePath is a custom template file. Empty selects the embedded template.
	TemplatePath string
	// Markdown renders commit bodies as Markdown instead of escaped multi-line text.
	Markdown bool
	// DateFormat is a Go time layout for commit dates.
	DateFormat string
}

// TemplateReadError reports a custom template file that could not be read.
type TemplateReadError struct {
	Path string
	Err  error
}

func (e *TemplateReadError) Error() string {
	return fmt.Sprintf("reading template %s: %v", e.Path, e.Err)
}

func (e *TemplateReadError) Unwrap() error { return e.Err }

// HTMLRenderer renders documents with html/template.
type HTMLRenderer struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
	opts     Options
}

// New parses the configured template and returns a renderer.
func New(opts Options) (*HTMLRenderer, error) {
	if opts.DateFormat == "" {
		opts.DateFormat = DefaultDateFormat
	}

	r := &HTMLRenderer{
		markdown: goldmark.New(),
		opts:     opts,
	}

	name, content, err := loadTemplate(opts.TemplatePath)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(r.funcs()).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Render executes the template for doc and writes the HTML to w.
// Output is buffered so a failing template never produces partial output.
func (r *HTMLRenderer) Render(w io.Writer, doc Document) error {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// DefaultTemplate returns the embedded template source.
func DefaultTemplate() ([]byte, error) {
	return templateFS.ReadFile("templates/" + DefaultTemplateName)
}

func loadTemplate(path string) (name, content string, err error) {
	if path == "" {
		data, err := DefaultTemplate()
		if err != nil {
			return "", "", fmt.Errorf("reading embedded template: %w", err)
		}
		return DefaultTemplateName, string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", &TemplateReadError{Path: path, Err: err}
	}
	return path, string(data), nil
}

func (r *HTMLRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"shortHash":  func(c commitrange.Commit) string { return c.ShortHash() },
		"subject":    func(c commitrange.Commit) string { return c.Subject() },
		"body":       func(c commitrange.Commit) string { return c.Body() },
		"multiline":  Multiline,
		"markdown":   r.Markdown,
		"formatBody": r.formatBody,
		"date":       r.formatDate,
		"iso":        func(t time.Time) string { return t.Format(time.RFC3339) },
	}
}

// Multiline escapes text and turns line breaks into <br/> elements.
func Multiline(text string) template.HTML {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	escaped := template.HTMLEscapeString(text)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}

// Markdown converts text to HTML. Raw HTML in the source is dropped.
func (r *HTMLRenderer) Markdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (r *HTMLRenderer) formatBody(text string) (template.HTML, error) {
	if r.opts.Markdown {
		return r.Markdown(text)
	}
	return Multiline(text), nil
}

func (r *HTMLRenderer) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(r.opts.DateFormat)
}
