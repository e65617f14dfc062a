package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"mapmatch/pkg/geom"
	"mapmatch/pkg/matcherr"
)

// Fix is a single trajectory point: a coordinate and its UTC timestamp.
type Fix struct {
	Point     geom.Point
	Timestamp time.Time
}

const trajectoryTimeLayout = "2006-01-02T15:04:05Z"

// ReadTrajectoryCSV reads "longitude;latitude;timestamp" lines (no
// header), skipping blank lines, returning fixes in file order.
// Timestamp must be ISO-8601 UTC (yyyy-MM-ddTHH:mm:ssZ); a malformed
// line is an error rather than a silent skip.
func ReadTrajectoryCSV(r io.Reader, f *geom.Factory) ([]Fix, error) {
	scanner := bufio.NewScanner(r)
	var fixes []Fix
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) != 3 {
			return nil, matcherr.New(matcherr.KindInvalidInput, "ioformat.ReadTrajectoryCSV",
				fmt.Sprintf("line %d: expected 3 fields, got %d", lineNo, len(fields)))
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, matcherr.New(matcherr.KindInvalidInput, "ioformat.ReadTrajectoryCSV",
				fmt.Sprintf("line %d: bad longitude: %v", lineNo, err))
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, matcherr.New(matcherr.KindInvalidInput, "ioformat.ReadTrajectoryCSV",
				fmt.Sprintf("line %d: bad latitude: %v", lineNo, err))
		}
		ts, err := time.Parse(trajectoryTimeLayout, strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, matcherr.New(matcherr.KindInvalidInput, "ioformat.ReadTrajectoryCSV",
				fmt.Sprintf("line %d: bad timestamp: %v", lineNo, err))
		}
		pt, err := f.CreatePoint(lon, lat)
		if err != nil {
			return nil, err
		}
		fixes = append(fixes, Fix{Point: pt, Timestamp: ts})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fixes, nil
}
