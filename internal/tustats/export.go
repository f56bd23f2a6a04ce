package tustats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// csvRankingEntries is how many ranking entries are flattened per CSV row.
const csvRankingEntries = 3

// humanRankingEntries is how many ranking entries the human output shows.
const humanRankingEntries = 5

// msgNoRecords is printed when a store holds no stats.
const msgNoRecords = "No translation unit stats recorded."

// Query opens the store at path and returns every stored record. Order is
// implementation-defined; sort by Timestamp for chronological output.
func Query(path string) ([]TranslationUnitStats, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, err
	}

	records, scanErr := store.Scan()

	closeErr := store.Close()
	if scanErr != nil {
		return nil, errors.Join(scanErr, closeErr)
	}

	if closeErr != nil {
		return nil, closeErr
	}

	return records, nil
}

// csvHeader is the fixed export schema. Scalar fields first, then three
// flattened entries per ranking. The by-count block carries (prefix, count,
// lines) and the by-size block (prefix, lines, count); the swapped secondary
// field order is part of the schema and kept for compatibility.
var csvHeader = buildCSVHeader()

func buildCSVHeader() []string {
	header := []string{
		"timestamp",
		"input_file",
		"preprocessed_size",
		"num_includes",
		"preprocess_duration_ms",
		"compile_duration_ms",
		"dist_retry_count",
		"is_distributed",
	}

	for i := 1; i <= csvRankingEntries; i++ {
		header = append(header,
			fmt.Sprintf("by_count_prefix_%d", i),
			fmt.Sprintf("by_count_count_%d", i),
			fmt.Sprintf("by_count_lines_%d", i),
		)
	}

	for i := 1; i <= csvRankingEntries; i++ {
		header = append(header,
			fmt.Sprintf("by_size_prefix_%d", i),
			fmt.Sprintf("by_size_lines_%d", i),
			fmt.Sprintf("by_size_count_%d", i),
		)
	}

	return header
}

// ToCSV renders records as CSV with a fixed column count: rankings with
// fewer than three entries pad with empty fields. Output depends only on the
// input, so repeated calls are byte-identical.
func ToCSV(records []TranslationUnitStats) (string, error) {
	var buf strings.Builder

	writer := csv.NewWriter(&buf)

	err := writer.Write(csvHeader)
	if err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for i := range records {
		rowErr := writer.Write(csvRow(&records[i]))
		if rowErr != nil {
			return "", fmt.Errorf("write csv row: %w", rowErr)
		}
	}

	writer.Flush()

	flushErr := writer.Error()
	if flushErr != nil {
		return "", fmt.Errorf("flush csv: %w", flushErr)
	}

	return buf.String(), nil
}

func csvRow(stats *TranslationUnitStats) []string {
	row := []string{
		strconv.FormatInt(stats.Timestamp.Unix(), 10),
		stats.InputFile,
		strconv.FormatUint(stats.PreprocessedSize, 10),
		strconv.Itoa(stats.NumIncludes),
		strconv.FormatInt(stats.PreprocessDuration.Milliseconds(), 10),
		strconv.FormatInt(stats.CompileDuration.Milliseconds(), 10),
		strconv.FormatUint(uint64(stats.DistRetryCount), 10),
		strconv.FormatBool(stats.IsDistributed),
	}

	for i := range csvRankingEntries {
		if i < len(stats.TopIncludesByCount) {
			entry := stats.TopIncludesByCount[i]
			row = append(row, entry.PathPrefix, strconv.Itoa(entry.Count), strconv.FormatInt(entry.Lines, 10))
		} else {
			row = append(row, "", "", "")
		}
	}

	for i := range csvRankingEntries {
		if i < len(stats.TopIncludesBySize) {
			entry := stats.TopIncludesBySize[i]
			row = append(row, entry.PathPrefix, strconv.FormatInt(entry.Lines, 10), strconv.Itoa(entry.Count))
		} else {
			row = append(row, "", "", "")
		}
	}

	return row
}

// WriteHuman renders records as free-form text for operators. An empty input
// states so explicitly instead of printing an empty table.
func WriteHuman(w io.Writer, records []TranslationUnitStats) {
	if len(records) == 0 {
		fmt.Fprintln(w, msgNoRecords)

		return
	}

	for i := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}

		writeHumanRecord(w, &records[i])
	}
}

func writeHumanRecord(w io.Writer, stats *TranslationUnitStats) {
	fmt.Fprintf(w, "%s\n", stats.InputFile)
	fmt.Fprintf(w, "  preprocessed size: %s\n", humanize.Bytes(stats.PreprocessedSize))
	fmt.Fprintf(w, "  includes:          %d\n", stats.NumIncludes)
	fmt.Fprintf(w, "  preprocess time:   %s\n", stats.PreprocessDuration)
	fmt.Fprintf(w, "  compile time:      %s\n", stats.CompileDuration)
	fmt.Fprintf(w, "  distributed:       %t (retries: %d)\n", stats.IsDistributed, stats.DistRetryCount)

	if len(stats.TopIncludesByCount) > 0 {
		fmt.Fprintln(w, "  top includes by count:")
		writeRankingTable(w, stats.TopIncludesByCount)
	}

	if len(stats.TopIncludesBySize) > 0 {
		fmt.Fprintln(w, "  top includes by size:")
		writeRankingTable(w, stats.TopIncludesBySize)
	}

	fmt.Fprintf(w, "  recorded at: %s\n", stats.Timestamp)
}

func writeRankingTable(w io.Writer, ranking []IncludeStats) {
	shown := ranking
	if len(shown) > humanRankingEntries {
		shown = shown[:humanRankingEntries]
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"prefix", "files", "size"})

	for _, entry := range shown {
		tbl.AppendRow(table.Row{entry.PathPrefix, entry.Count, humanize.Bytes(uint64(entry.Lines))})
	}

	tbl.Render()
}
