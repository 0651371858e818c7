package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter renders the report with colors and boxes for a terminal.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Report) error {
	if err := r.check(); err != nil {
		return err
	}

	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatBody(r))
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	if r.Stats.ErrorRows > 0 {
		w.WriteString(WarningStyle.Render(fmt.Sprintf(
			"%d %s could not be read and carry an error marker",
			r.Stats.ErrorRows, plural(r.Stats.ErrorRows, "file", "files"))))
		w.WriteString("\n")
	}
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Report) string {
	var lines []string
	if r.Root != "" {
		lines = append(lines, field("Root:", ValueStyle.Render(r.Root)))
	}
	if r.Algorithm != "" {
		lines = append(lines, field("Algorithm:", ValueStyle.Render(r.Algorithm)))
	}
	lines = append(lines, field("Manifest:", PathStyle.Render(r.CSV)))
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatBody(r *Report) string {
	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(field("Hash:", DigestStyle.Render(r.Hash)))
	sb.WriteString("\n")

	if r.Compared() {
		sb.WriteString("  ")
		sb.WriteString(field("Compare:", ValueStyle.Render(*r.Result.Compare)))
		sb.WriteString("\n  ")
		if *r.IsMatch {
			sb.WriteString(SuccessStyle.Bold(true).Render("MATCH"))
		} else {
			sb.WriteString(ErrorStyle.Bold(true).Render("MISMATCH"))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Report) string {
	parts := []string{
		field("Files:", ValueStyle.Render(humanize.Comma(r.Stats.Files))),
		field("Hashed:", SizeStyle.Render(humanize.IBytes(uint64(max(r.Stats.BytesHashed, 0))))),
		field("Elapsed:", ValueStyle.Render(formatDuration(r.Stats.Elapsed))),
	}
	if r.Stats.ErrorRows > 0 {
		parts = append(parts, field("Errors:", ErrorStyle.Render(humanize.Comma(r.Stats.ErrorRows))))
	}
	parts = append(parts, MutedStyle.Render("Use -o json for machine-readable output"))
	return FooterBox.Render(strings.Join(parts, "  "))
}

func field(label, value string) string {
	return LabelStyle.Render(label) + " " + value
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatDuration formats a duration in a human-friendly way.
func formatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
