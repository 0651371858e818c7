package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/config"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/manifest"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/verify"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List manifests in the CSV directory",
	Long: `List the manifests written to the CSV directory, newest first.

Manifests are recognised by their name, <timestamp>_<algorithm>_<uuid>.csv.
Other files in the directory are ignored.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a manifest and its digest",
	Long: `Show the rows of one manifest and recompute its digest.

The name may be a full file name, a path, or a unique prefix such as the
timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove manifests older than the retention period",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
	historyJSON  bool
	historyDays  int
)

// maxShownRecords caps the rows printed by history show in table form.
const maxShownRecords = 50

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "print JSON instead of a table")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of manifests to show (0 = all)")
	historyCleanCmd.Flags().IntVar(&historyDays, "days", 0, "retention in days (default: manifest.retention_days)")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory returns the history of the configured CSV directory.
func openHistory() (*manifest.History, *config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	dir := cfg.CSVDirectory
	if dir == "" {
		dir = config.DefaultCSVDirectory()
	}
	h, err := manifest.NewHistory(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open manifest history: %w", err)
	}
	return h, cfg, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	h, _, err := openHistory()
	if err != nil {
		return err
	}

	infos, err := h.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	w := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(w, infos)
	}

	if len(infos) == 0 {
		fmt.Fprintf(w, "No manifests found in %s.\n", h.Dir())
		fmt.Fprintln(w, "Run 'hashwalk --path DIR' to write one.")
		return nil
	}
	printInfos(w, infos, time.Now())
	fmt.Fprintln(w, "\nUse 'hashwalk history show <name>' to inspect a manifest.")
	return nil
}

func printInfos(w io.Writer, infos []manifest.Info, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tALGORITHM\tSIZE\tWRITTEN")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			info.Name,
			info.Algorithm,
			types.FormatSize(info.Size),
			humanize.RelTime(info.Time, now, "ago", "from now"))
	}
	_ = tw.Flush()
}

type manifestDetail struct {
	manifest.Info
	Hash    string         `json:"hash"`
	Records []types.Record `json:"records"`
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	h, _, err := openHistory()
	if err != nil {
		return err
	}

	info, err := h.Find(args[0])
	if err != nil {
		return fmt.Errorf("failed to find manifest: %w", err)
	}

	algo, err := hasher.Lookup(info.Algorithm)
	if err != nil {
		return err
	}
	digest, err := verify.ManifestDigest(info.Path, algo)
	if err != nil {
		return err
	}
	records, err := manifest.Read(info.Path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	w := cmd.OutOrStdout()
	if historyJSON {
		return writeJSON(w, manifestDetail{Info: *info, Hash: digest, Records: records})
	}

	errorRows := 0
	for _, r := range records {
		if r.IsErrorMarker() {
			errorRows++
		}
	}

	fmt.Fprintln(w, "\nManifest Details")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Path:       %s\n", info.Path)
	fmt.Fprintf(w, "Written:    %s\n", info.Time.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Algorithm:  %s\n", info.Algorithm)
	fmt.Fprintf(w, "Hash:       %s\n", digest)
	fmt.Fprintf(w, "Files:      %d\n", len(records))
	fmt.Fprintf(w, "Errors:     %d\n", errorRows)

	if len(records) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nFiles:")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	limit := min(len(records), maxShownRecords)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range records[:limit] {
		fmt.Fprintf(tw, "%s\t%s\n", r.Hash, r.RelativePath)
	}
	_ = tw.Flush()
	if len(records) > limit {
		fmt.Fprintf(w, "\n... and %d more files\n", len(records)-limit)
	}
	return nil
}

func runHistoryClean(cmd *cobra.Command, _ []string) error {
	h, cfg, err := openHistory()
	if err != nil {
		return err
	}

	days := historyDays
	if days <= 0 {
		days = cfg.Manifest.RetentionDays
	}
	if days <= 0 {
		days = config.DefaultRetentionDays
	}

	removed, err := h.Cleanup(days, time.Now())
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}
	logger.Info("history cleaned", "dir", h.Dir(), "days", days, "removed", removed)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s older than %d days from %s.\n",
		removed, pluralize(removed, "manifest", "manifests"), days, h.Dir())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
