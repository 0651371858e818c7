package output

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"
)

// PlainFormatter writes the report as aligned key/value lines without any
// styling. It is meant for scripts that prefer text to JSON.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Report) error {
	if err := r.check(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	rows := [][2]string{
		{"csv", r.CSV},
		{"hash", r.Hash},
	}
	if r.Compared() {
		rows = append(rows,
			[2]string{"compare", *r.Result.Compare},
			[2]string{"isMatch", strconv.FormatBool(*r.IsMatch)},
		)
	}
	if r.Root != "" {
		rows = append(rows, [2]string{"root", r.Root})
	}
	if r.Algorithm != "" {
		rows = append(rows, [2]string{"algorithm", r.Algorithm})
	}
	rows = append(rows,
		[2]string{"files", strconv.FormatInt(r.Stats.Files, 10)},
		[2]string{"error_rows", strconv.FormatInt(r.Stats.ErrorRows, 10)},
		[2]string{"bytes_hashed", strconv.FormatInt(r.Stats.BytesHashed, 10)},
		[2]string{"elapsed", r.Stats.Elapsed.String()},
	)

	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
