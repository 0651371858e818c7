package output

import (
	"bytes"
	"sync"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultTemplate prints the digest and manifest path in the layout of
// sha256sum.
const DefaultTemplate = "{{.Hash}}  {{.CSV}}\n"

// TemplateFormatter renders the report with a Go text/template. The
// template sees the Report, so {{.CSV}}, {{.Hash}}, {{.Stats.Files}} and
// {{.Status}} are all available.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter creates a formatter for templateStr.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate replaces the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// {{bytes .Stats.BytesHashed}}
		"bytes": func(size int64) string {
			return humanize.IBytes(uint64(max(size, 0)))
		},
		// {{duration .Stats.Elapsed}}
		"duration": formatDuration,
		// {{deref .Compare}}
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		// {{date now "2006-01-02"}}
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"now": time.Now,
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Report) error {
	if err := r.check(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			logger.Debug("template parse failed", "err", err)
			return err
		}
		f.template = tmpl
	}
	return f.template.Execute(w, r)
}

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(DefaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
