// Package commands implements the cachefang CLI subcommands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/cachefang/internal/config"
	"github.com/Sumatoshi-tech/cachefang/internal/tustats"
)

const (
	statsCmdUse   = "stats"
	statsCmdShort = "Query, export, and record translation unit statistics"

	showCmdUse   = "show"
	showCmdShort = "Print recorded translation unit statistics"

	exportCmdUse   = "export"
	exportCmdShort = "Export recorded translation unit statistics as CSV"

	recordCmdUse   = "record"
	recordCmdShort = "Record one translation unit statistics entry from stdin JSON"

	storeFlag      = "store"
	storeFlagShort = "s"
	storeFlagUsage = "path to the stats store (default: configured or tool cache dir)"

	configFlag      = "config"
	configFlagUsage = "path to the cachefang config file"

	outputFlag      = "output"
	outputFlagShort = "o"
	outputFlagUsage = "output file for CSV (default: stdout)"

	outputFilePerm = 0o644
)

// statsFlags holds flag values shared across the stats subcommands.
type statsFlags struct {
	storePath  string
	configPath string
}

// NewStatsCommand creates the stats subcommand tree.
func NewStatsCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   statsCmdUse,
		Short: statsCmdShort,
	}

	cmd.PersistentFlags().StringVarP(&flags.storePath, storeFlag, storeFlagShort, "", storeFlagUsage)
	cmd.PersistentFlags().StringVar(&flags.configPath, configFlag, "", configFlagUsage)

	cmd.AddCommand(newShowCommand(flags))
	cmd.AddCommand(newExportCommand(flags))
	cmd.AddCommand(newRecordCommand(flags))

	return cmd
}

func newShowCommand(flags *statsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   showCmdUse,
		Short: showCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := queryStats(flags)
			if err != nil {
				return err
			}

			sortByTimestamp(records)
			tustats.WriteHuman(cmd.OutOrStdout(), records)

			return nil
		},
	}
}

func newExportCommand(flags *statsFlags) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   exportCmdUse,
		Short: exportCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := queryStats(flags)
			if err != nil {
				return err
			}

			sortByTimestamp(records)

			out, csvErr := tustats.ToCSV(records)
			if csvErr != nil {
				return csvErr
			}

			if outputPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), out)

				return nil
			}

			writeErr := os.WriteFile(outputPath, []byte(out), outputFilePerm)
			if writeErr != nil {
				return fmt.Errorf("write csv file: %w", writeErr)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, outputFlag, outputFlagShort, "", outputFlagUsage)

	return cmd
}

func newRecordCommand(flags *statsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   recordCmdUse,
		Short: recordCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecord(flags, cmd.InOrStdin())
		},
	}
}

// statsSubmission is the stdin JSON shape for `stats record`: scalar
// measurements plus raw include contributions, aggregated here.
type statsSubmission struct {
	InputFile            string                        `json:"input_file"`
	PreprocessedSize     uint64                        `json:"preprocessed_size"`
	PreprocessDurationMS int64                         `json:"preprocess_duration_ms"`
	CompileDurationMS    int64                         `json:"compile_duration_ms"`
	DistRetryCount       uint32                        `json:"dist_retry_count"`
	IsDistributed        bool                          `json:"is_distributed"`
	Includes             []tustats.IncludeContribution `json:"includes"`
}

func runRecord(flags *statsFlags, in io.Reader) error {
	var submission statsSubmission

	decodeErr := json.NewDecoder(in).Decode(&submission)
	if decodeErr != nil {
		return fmt.Errorf("decode stats submission: %w", decodeErr)
	}

	storePath, err := resolveStorePath(flags)
	if err != nil {
		return err
	}

	// Unlike the in-process recorder, an explicit record command opens the
	// store directly and surfaces failures to the operator.
	store, openErr := tustats.OpenStore(storePath)
	if openErr != nil {
		return openErr
	}
	defer store.Close()

	byCount, bySize := tustats.TopIncludes(submission.Includes, tustats.DefaultTopIncludes)

	return store.Insert(&tustats.TranslationUnitStats{
		InputFile:          submission.InputFile,
		PreprocessedSize:   submission.PreprocessedSize,
		NumIncludes:        len(submission.Includes),
		PreprocessDuration: time.Duration(submission.PreprocessDurationMS) * time.Millisecond,
		CompileDuration:    time.Duration(submission.CompileDurationMS) * time.Millisecond,
		DistRetryCount:     submission.DistRetryCount,
		IsDistributed:      submission.IsDistributed,
		TopIncludesByCount: byCount,
		TopIncludesBySize:  bySize,
		Timestamp:          time.Now(),
	})
}

// queryStats resolves the store path and reads every record back.
func queryStats(flags *statsFlags) ([]tustats.TranslationUnitStats, error) {
	storePath, err := resolveStorePath(flags)
	if err != nil {
		return nil, err
	}

	return tustats.Query(storePath)
}

// resolveStorePath picks the store location: explicit flag, then config,
// then the default under the tool cache dir.
func resolveStorePath(flags *statsFlags) (string, error) {
	if flags.storePath != "" {
		return flags.storePath, nil
	}

	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return "", err
	}

	return cfg.TUStats.ResolveStatsPath()
}

// sortByTimestamp orders records chronologically, then by input file for
// records sharing a timestamp. Scan order is an engine detail, so reporting
// sorts explicitly.
func sortByTimestamp(records []tustats.TranslationUnitStats) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].InputFile < records[j].InputFile
		}

		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
