package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

type yamlOutput struct {
	Result *yamlResult `yaml:"result"`
	Stats  yamlStats   `yaml:"stats"`
	Meta   yamlMeta    `yaml:"meta"`
}

type yamlResult struct {
	CSV     string  `yaml:"csv"`
	Hash    string  `yaml:"hash"`
	Compare *string `yaml:"compare,omitempty"`
	IsMatch *bool   `yaml:"isMatch,omitempty"`
}

type yamlStats struct {
	Files       int64  `yaml:"files"`
	ErrorRows   int64  `yaml:"error_rows"`
	BytesHashed int64  `yaml:"bytes_hashed"`
	Elapsed     string `yaml:"elapsed"`
}

type yamlMeta struct {
	Root      string `yaml:"root,omitempty"`
	Algorithm string `yaml:"algorithm,omitempty"`
	Status    string `yaml:"status"`
}

// YAMLFormatter writes the Result, the run statistics and metadata as YAML.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	if err := r.check(); err != nil {
		return err
	}

	out := yamlOutput{
		Result: &yamlResult{
			CSV:     r.CSV,
			Hash:    r.Hash,
			Compare: r.Result.Compare,
			IsMatch: r.IsMatch,
		},
		Stats: yamlStats{
			Files:       r.Stats.Files,
			ErrorRows:   r.Stats.ErrorRows,
			BytesHashed: r.Stats.BytesHashed,
			Elapsed:     r.Stats.Elapsed.String(),
		},
		Meta: yamlMeta{
			Root:      r.Root,
			Algorithm: r.Algorithm,
			Status:    r.Status(),
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(out); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
