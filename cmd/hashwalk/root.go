package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/config"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/output"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

var logger = logging.Get("cli")

var (
	cfgFile   string
	configErr error

	rootCmd = &cobra.Command{
		Use:   "hashwalk --path DIR",
		Short: "Write a checksum manifest for a directory tree",
		Long: `hashwalk walks a directory, hashes every file it finds and writes the
results to a CSV manifest. It then hashes the manifest itself and prints the
manifest path and digest as JSON. With --compare the digest is checked against
a reference file or a literal digest.

Examples:
  hashwalk --path ./photos
  hashwalk --path ./photos --algorithm blake3
  hashwalk --path ./photos --compare previous.csv
  hashwalk --path ./photos --compare 9f86d08...
  hashwalk --verify-supported
  hashwalk history`,
		Args:              cobra.NoArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: initializeLogging,
		PersistentPostRun: func(*cobra.Command, []string) { _ = logging.Close() },
		RunE:              runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/hashwalk/config.yaml)")
	rootCmd.PersistentFlags().String("csvDirectory", "", "directory receiving manifests (default: $TMPDIR/hashwalk)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "result format: json, yaml, pretty, plain, template")
	rootCmd.PersistentFlags().Bool("debug", false, "log to stderr and include error causes")

	registerScanFlags(rootCmd)
	bindFlags()
}

// bindFlags binds the flags that override configuration keys.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("csv_directory", pf.Lookup("csvDirectory"))
	_ = viper.BindPFlag("output", pf.Lookup("output"))
	_ = viper.BindPFlag("debug", pf.Lookup("debug"))

	f := rootCmd.Flags()
	_ = viper.BindPFlag("algorithm", f.Lookup("algorithm"))
	_ = viper.BindPFlag("manifest.deterministic_errors", f.Lookup("deterministic-errors"))
}

// initConfig points the global viper at the config file, the environment
// and the defaults. A broken config file is reported by the pre-run hook.
func initConfig() {
	config.Configure(viper.GetViper(), cfgFile)
	configErr = config.Read(viper.GetViper())
}

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err, viper.GetBool("debug"))
	}
	return err
}

// reportError writes err as {"error": "..."}. With debug the message is
// followed by the error kind and every wrapped cause.
func reportError(w io.Writer, err error, debug bool) {
	msg := err.Error()
	if debug {
		var te *types.Error
		if errors.As(err, &te) {
			msg = msg + "\n" + te.Verbose()
		} else {
			msg = fmt.Sprintf("%s\n%+v", msg, err)
		}
	}
	_ = output.WriteError(w, msg)
}
