package service

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
)

// Column names the portal export must carry, matched after header
// normalization (lowercased, whitespace collapsed).
const (
	ColTimestamp = "timestamp"
	ColCtR       = "ct_r (a)"
	ColCtY       = "ct_y (a)"
	ColCtB       = "ct_b (a)"
)

// RawReading is one cleaned row of the portal CSV: a minute of sampled
// three-phase current.
type RawReading struct {
	Timestamp time.Time
	CtR       float64
	CtY       float64
	CtB       float64
}

type CsvReadServiceImpl struct{}

// ReadSensorCsv parses a portal export into cleaned readings. Rows with
// any blank or unparseable field are dropped, extra columns are
// ignored, and the result is sorted ascending by timestamp. A missing
// required column aborts with the column named.
func (p *CsvReadServiceImpl) ReadSensorCsv(filePath string) ([]RawReading, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", filePath, err)
	}
	defer f.Close()

	csvr := csv.NewReader(bufio.NewReader(f))
	csvr.TrimLeadingSpace = true
	csvr.LazyQuotes = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv %s is empty", filePath)
		}
		return nil, fmt.Errorf("csv header read: %w", err)
	}

	cols, err := p.locateColumns(header)
	if err != nil {
		return nil, err
	}

	var readings []RawReading
	var dropped int
	for line := 2; ; line++ {
		fields, err := csvr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("csv read line %d: %w", line, err)
		}
		if len(fields) == 0 {
			continue
		}

		r, ok := p.parseRow(fields, cols)
		if !ok {
			dropped++
			continue
		}
		readings = append(readings, r)
	}

	if dropped > 0 {
		log.Logger.Warn("dropped rows with missing or malformed fields",
			zap.String("file", filePath), zap.Int("dropped", dropped))
	}

	// stable keeps batch order among duplicate timestamps
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}

// locateColumns maps the required columns to their header positions.
func (p *CsvReadServiceImpl) locateColumns(header []string) (map[string]int, error) {
	index := map[string]int{}
	for i, name := range header {
		index[NormalizeHeader(name)] = i
	}
	cols := map[string]int{}
	for _, want := range []string{ColTimestamp, ColCtR, ColCtY, ColCtB} {
		i, ok := index[want]
		if !ok {
			return nil, &MissingColumnError{Column: want}
		}
		cols[want] = i
	}
	return cols, nil
}

func (p *CsvReadServiceImpl) parseRow(fields []string, cols map[string]int) (RawReading, bool) {
	for _, i := range cols {
		if i >= len(fields) || strings.TrimSpace(fields[i]) == "" {
			return RawReading{}, false
		}
	}

	ts, err := p.ParseTimestamp(strings.TrimSpace(fields[cols[ColTimestamp]]))
	if err != nil {
		return RawReading{}, false
	}

	amps := make(map[string]float64, 3)
	for _, col := range []string{ColCtR, ColCtY, ColCtB} {
		raw := strings.ReplaceAll(strings.TrimSpace(fields[cols[col]]), ",", "")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return RawReading{}, false
		}
		amps[col] = val
	}

	return RawReading{
		Timestamp: ts,
		CtR:       amps[ColCtR],
		CtY:       amps[ColCtY],
		CtB:       amps[ColCtB],
	}, true
}

// ParseTimestamp parses multiple timestamp formats
func (p *CsvReadServiceImpl) ParseTimestamp(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		time.RFC3339,
		"02/01/2006 15:04",
	}
	var t time.Time
	var err error
	for _, f := range formats {
		t, err = time.ParseInLocation(f, s, time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// NormalizeHeader lowercases a header cell and collapses its
// whitespace, so "CT_R  (A)" and "ct_r (a)" match.
func NormalizeHeader(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
