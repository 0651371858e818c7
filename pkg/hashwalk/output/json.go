package output

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"
)

// JSONFormatter writes the Result as a single line of JSON.
type JSONFormatter struct {
	// Indent pretty-prints the object with two spaces.
	Indent bool
}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	if err := r.check(); err != nil {
		return err
	}
	return encodeJSON(w, r.Result, f.Indent)
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteError writes {"error": msg} followed by a newline.
func WriteError(w io.Writer, msg string) error {
	return encodeJSON(w, errorBody{Error: msg}, false)
}

// WriteNames writes names as a JSON array followed by a newline. A nil
// slice is written as [].
func WriteNames(w io.Writer, names []string) error {
	if names == nil {
		names = []string{}
	}
	return encodeJSON(w, names, false)
}

func encodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
