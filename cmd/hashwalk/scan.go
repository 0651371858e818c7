package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jamesainslie/hashwalk/cmd/hashwalk/tui"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/config"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/output"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/pipeline"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

var errMissingPath = errors.New("missing required argument: --path")

// scanFlags holds the flags that only apply to a scan.
type scanFlags struct {
	path            string
	compare         string
	template        string
	progress        bool
	verifySupported bool
}

var scanOpts scanFlags

func registerScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&scanOpts.path, "path", "p", "", "directory to scan (required)")
	f.StringVarP(&scanOpts.compare, "compare", "c", "", "file or literal digest to compare the manifest digest with")
	f.StringP("algorithm", "a", "", "hash algorithm (default: sha256)")
	f.Bool("deterministic-errors", false, "write ERROR_<CODE> markers without a timestamp")
	f.StringVar(&scanOpts.template, "template", "", "Go template for the result (implies --output template)")
	f.BoolVar(&scanOpts.progress, "progress", false, "show progress on stderr when it is a terminal")
	f.BoolVarP(&scanOpts.verifySupported, "verify-supported", "v", false, "print the algorithms available on this host and exit")
}

// runScan is the root command handler.
func runScan(cmd *cobra.Command, _ []string) error {
	if scanOpts.verifySupported {
		return printAlgorithms(cmd)
	}
	if scanOpts.path == "" {
		return errMissingPath
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	formatter, err := resolveFormatter(cfg.Output, scanOpts.template)
	if err != nil {
		return err
	}

	root, err := config.ExpandPath(scanOpts.path)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		Root:                root,
		Algorithm:           cfg.Algorithm,
		Compare:             scanOpts.compare,
		CSVDirectory:        cfg.CSVDirectory,
		DeterministicErrors: cfg.Manifest.DeterministicErrors,
	}

	var p *pipeline.Pipeline
	run := func(onProgress func(types.Progress)) (*types.Result, error) {
		opts.OnProgress = onProgress
		p = pipeline.New(opts)
		return p.Run()
	}

	var result *types.Result
	if scanOpts.progress && term.IsTerminal(int(os.Stderr.Fd())) {
		result, err = tui.Run(root, run)
	} else {
		result, err = run(nil)
	}
	if err != nil {
		return err
	}

	report := &output.Report{
		Result:    result,
		Stats:     p.Stats(),
		Root:      absOrSame(root),
		Algorithm: canonicalAlgorithm(cfg.Algorithm),
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, report); err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// resolveFormatter picks the result formatter. A template string selects
// the template formatter regardless of name.
func resolveFormatter(name, tmpl string) (output.Formatter, error) {
	if tmpl != "" {
		return output.NewTemplateFormatter(tmpl), nil
	}
	if name == "" {
		name = config.DefaultOutput
	}
	return output.Get(name)
}

func canonicalAlgorithm(name string) string {
	if name == "" {
		name = hasher.DefaultAlgorithm
	}
	if algo, err := hasher.Lookup(name); err == nil {
		return algo.Name
	}
	return name
}

func absOrSame(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
