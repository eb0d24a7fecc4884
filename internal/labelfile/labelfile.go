// Package labelfile parses the ground-truth interval file: one interval
// per line, tab-separated start/end/label (spec.md §6), grounded on
// original_source/src/audioid.c's AudioIdStart label-file read loop
// (lines 792-822).
package labelfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danielgjackson/audioid/internal/interval"
	"github.com/danielgjackson/audioid/internal/label"
)

// Load reads filename into list, registering each interval's label text
// in table. Lines that do not parse into exactly three tab-separated
// fields, or whose numeric fields are malformed, are skipped and counted
// (spec.md §7, Parse-error); overlapping or inverted intervals are
// reported as warnings by interval.List.Add but do not stop the load.
func Load(filename string, table *label.Table, list *interval.List) (errorCount int, warnings []interval.Warning, err error) {
	f, openErr := os.Open(filename)
	if openErr != nil {
		return 0, nil, fmt.Errorf("labelfile: opening %s: %w", filename, openErr)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			errorCount++
			continue
		}

		start, startErr := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		end, endErr := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		text := strings.TrimSpace(fields[2])
		if startErr != nil || endErr != nil || text == "" {
			errorCount++
			continue
		}

		id, createErr := table.GetOrCreate(text)
		if createErr != nil {
			errorCount++
			continue
		}

		warnings = append(warnings, list.Add(id, start, end)...)
	}

	return errorCount, warnings, scanner.Err()
}
