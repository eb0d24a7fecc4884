// Package statefile loads and saves the INI-like template/config state
// file (spec.md §6), grounded on original_source/src/audioid.c's
// AudioIdStateLoad/AudioIdStateSave (lines 888-1047).
package statefile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danielgjackson/audioid/internal/label"
	"github.com/danielgjackson/audioid/internal/stats"
)

// Load reads filename into table: a global `bucketcount` line (must match
// table.BucketCount()) followed by `[label]` sections carrying `stats`,
// `scale`, `limit`, `minduration`, `afterevent` and `withininterval`
// (spec.md §6). Returns the count of malformed lines skipped (spec.md
// §7, Parse-error) and a fatal error for an unreadable file or a
// bucketcount mismatch (spec.md §7, Config-mismatch).
func Load(filename string, table *label.Table) (errorCount int, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("statefile: opening %s: %w", filename, err)
	}
	defer f.Close()

	global := true
	current := label.NoID

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			inner := strings.TrimSuffix(line[1:], "]")
			if inner == "" {
				global = true
				current = label.NoID
				continue
			}
			id, createErr := table.GetOrCreate(inner)
			if createErr != nil {
				errorCount++
				continue
			}
			current = id
			global = false
			continue
		}

		name, value, ok := splitKeyValue(line)
		if !ok {
			errorCount++
			continue
		}

		if global {
			if name != "bucketcount" {
				errorCount++
				continue
			}
			n, convErr := strconv.Atoi(value)
			if convErr != nil || n != table.BucketCount() {
				return errorCount, fmt.Errorf("statefile: %s was saved with bucketcount=%s, this run is configured for %d", filename, value, table.BucketCount())
			}
			continue
		}

		if current == label.NoID {
			errorCount++
			continue
		}
		l := table.Get(current)

		switch name {
		case "stats":
			if n := loadStats(table.Buckets(current), value); n != table.BucketCount() {
				errorCount++
			}
		case "scale":
			if v, convErr := strconv.ParseFloat(value, 64); convErr == nil {
				l.Scale = v
			} else {
				errorCount++
			}
		case "limit":
			if v, convErr := strconv.ParseFloat(value, 64); convErr == nil {
				l.Limit = v
			} else {
				errorCount++
			}
		case "minduration":
			if v, convErr := strconv.ParseFloat(value, 64); convErr == nil {
				l.MinDuration = v
			} else {
				errorCount++
			}
		case "withininterval":
			if v, convErr := strconv.ParseFloat(value, 64); convErr == nil {
				l.WithinInterval = v
			} else {
				errorCount++
			}
		case "afterevent":
			if id, createErr := table.GetOrCreate(value); createErr == nil {
				l.AfterEvent = id
			} else {
				errorCount++
			}
		default:
			errorCount++
		}
	}

	return errorCount, scanner.Err()
}

// splitKeyValue splits a "name = value" line, trimming surrounding
// whitespace and then every leading and trailing double-quote from value
// (spec.md §6).
func splitKeyValue(line string) (name, value string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	value = strings.Trim(value, `"`)
	return name, value, true
}

// loadStats parses a semicolon-separated list of "count mean sumVar"
// triples into template, returning the number of triples parsed.
func loadStats(template []stats.Running, value string) int {
	n := 0
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Fields(part)
		if len(fields) != 3 {
			continue
		}
		count, err1 := strconv.ParseUint(fields[0], 10, 32)
		mean, err2 := strconv.ParseFloat(fields[1], 64)
		sumVar, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if n < len(template) {
			template[n].SetRaw(uint32(count), mean, sumVar)
		}
		n++
	}
	return n
}

// Save writes table's per-label templates and configuration to filename
// in the format Load reads (spec.md §6). Round-trips count/mean/sumVar
// exactly and scale/limit/minduration/withininterval to the precision of
// the text format (spec.md §8).
func Save(filename string, table *label.Table) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("statefile: creating %s: %w", filename, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "# AudioID state file -- overwritten by --write-state")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "bucketcount = %d\n\n", table.BucketCount())

	for _, l := range table.All() {
		fmt.Fprintf(w, "[%s]\n", l.Text)

		fmt.Fprint(w, "stats = \"")
		template := table.Buckets(l.ID)
		for i := range template {
			if i > 0 {
				fmt.Fprint(w, "; ")
			}
			fmt.Fprintf(w, "%d %g %g", template[i].Count(), template[i].Mean(), template[i].SumVar())
		}
		fmt.Fprintln(w, "\"")

		fmt.Fprintf(w, "scale = %g\n", l.Scale)
		fmt.Fprintf(w, "limit = %g\n", l.Limit)
		fmt.Fprintf(w, "minduration = %g\n", l.MinDuration)
		if l.AfterEvent != label.NoID {
			if after := table.Get(l.AfterEvent); after != nil {
				fmt.Fprintf(w, "afterevent = %s\n", after.Text)
			}
		}
		fmt.Fprintf(w, "withininterval = %g\n", l.WithinInterval)
		fmt.Fprintln(w)
	}

	return w.Flush()
}
