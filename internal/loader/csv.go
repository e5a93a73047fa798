package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"FuturesBacktest/internal/model"
)

// CSVSource reads bars from a local CSV file with columns
// timestamp,open,high,low,close[,volume]. A header row, quoted fields, a
// UTF-8 BOM and UTF-16 encodings (common in exports from Windows tools) are
// all tolerated. Timestamps are either Unix milliseconds or "2006-01-02"
// / "2006-01-02 15:04:05" datetimes.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source reading from path.
func NewCSVSource(path string) *CSVSource { return &CSVSource{path: path} }

func (s *CSVSource) Name() string { return "csv:" + s.path }

// Load reads, parses and cleans the whole file. The instrument argument is
// ignored: a CSV file holds a single instrument.
func (s *CSVSource) Load(_ string) ([]model.Bar, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader, err := decodedReader(f)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var bars []model.Bar
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "\ufeff")
		line = strings.ReplaceAll(line, "\"", "")
		if line == "" {
			continue
		}
		bar, err := parseRow(line)
		if err != nil {
			if lineNo == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("parse csv line %d: %w", lineNo, err)
		}
		bars = append(bars, bar)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Clean(bars), nil
}

// decodedReader wraps f with a UTF-16 decoder when a BOM is present.
func decodedReader(f *os.File) (io.Reader, error) {
	br := bufio.NewReader(f)
	bom, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(bom) >= 2 && ((bom[0] == 0xFF && bom[1] == 0xFE) || (bom[0] == 0xFE && bom[1] == 0xFF)) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		return transform.NewReader(f, dec), nil
	}
	return br, nil
}

func parseRow(line string) (model.Bar, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return model.Bar{}, fmt.Errorf("want at least 5 fields, got %d", len(fields))
	}
	ts, err := parseTime(strings.TrimSpace(fields[0]))
	if err != nil {
		return model.Bar{}, err
	}
	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = v
	}
	bar := model.Bar{Time: ts, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
	if len(fields) > 5 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64); err == nil {
			bar.Volume = v
		}
	}
	return bar, nil
}

func parseTime(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
