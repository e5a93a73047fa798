package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestCSVSource_Load(t *testing.T) {
	// Header row, quoted fields, out-of-order rows and one unusable row.
	content := "timestamp,open,high,low,close,volume\n" +
		"2020-01-03,\"10.5\",\"11.0\",\"10.0\",\"10.8\",\"1500\"\n" +
		"2020-01-02,10.0,10.6,9.8,10.5,1200\n" +
		"2020-01-04,10.8,11.2,0,11.0,900\n" +
		"2020-01-01,9.9,10.2,9.7,10.0,1000\n"
	src := NewCSVSource(writeFile(t, "bars.csv", content))

	bars, err := src.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The zero-low row is dropped; the rest come back sorted by time.
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars after cleaning, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			t.Errorf("bars not sorted: %v before %v", bars[i-1].Time, bars[i].Time)
		}
	}
	if bars[0].Close != 10.0 || bars[2].Close != 10.8 {
		t.Errorf("unexpected closes: first %v, last %v", bars[0].Close, bars[2].Close)
	}
	if bars[1].Volume != 1200 {
		t.Errorf("expected volume 1200, got %v", bars[1].Volume)
	}
}

func TestCSVSource_UnixMillisTimestamps(t *testing.T) {
	content := "1577836800000,10.0,10.6,9.8,10.5,1200\n" +
		"1577923200000,10.5,11.0,10.0,10.8,1500\n"
	src := NewCSVSource(writeFile(t, "bars_ms.csv", content))

	bars, err := src.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !bars[0].Time.Equal(want) {
		t.Errorf("expected %v, got %v", want, bars[0].Time)
	}
}

func TestCSVSource_BadRow(t *testing.T) {
	content := "2020-01-01,10.0,10.6,9.8,10.5\n" +
		"2020-01-02,ten,10.6,9.8,10.5\n"
	src := NewCSVSource(writeFile(t, "bad.csv", content))
	if _, err := src.Load(""); err == nil {
		t.Error("expected error for unparsable price field")
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))
	if _, err := src.Load(""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSlice(t *testing.T) {
	content := "2020-01-01,1,2,0.5,1.5\n" +
		"2020-02-01,1,2,0.5,1.5\n" +
		"2020-03-01,1,2,0.5,1.5\n"
	src := NewCSVSource(writeFile(t, "range.csv", content))
	bars, err := src.Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 2, 15, 0, 0, 0, 0, time.UTC)
	got := Slice(bars, from, to)
	if len(got) != 1 {
		t.Fatalf("expected 1 bar in range, got %d", len(got))
	}
	if got[0].Time.Month() != time.February {
		t.Errorf("expected the February bar, got %v", got[0].Time)
	}

	if n := len(Slice(bars, time.Time{}, time.Time{})); n != 3 {
		t.Errorf("open bounds must keep all bars, got %d", n)
	}
}
