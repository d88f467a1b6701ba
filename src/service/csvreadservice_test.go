package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MPEnsystemsDeveloper/trim-v1/src/tools"
)

func writeCsv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensor_data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadSensorCsvNormalizesHeaders(t *testing.T) {
	path := writeCsv(t, "Timestamp,CT_R  (A),ct_y (a), CT_B (A) \n"+
		"2024-05-01 00:00:00,1.5,2.5,3.5\n")

	rows, err := ICsvReadService.ReadSensorCsv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.CtR != 1.5 || r.CtY != 2.5 || r.CtB != 3.5 {
		t.Errorf("wrong currents: %+v", r)
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !r.Timestamp.Equal(want) {
		t.Errorf("expected %v, got %v", want, r.Timestamp)
	}
}

func TestReadSensorCsvMissingColumn(t *testing.T) {
	path := writeCsv(t, "Timestamp,CT_R (A),CT_Y (A)\n"+
		"2024-05-01 00:00:00,1,2\n")

	_, err := ICsvReadService.ReadSensorCsv(path)
	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if mce.Column != ColCtB {
		t.Errorf("expected missing column %q, got %q", ColCtB, mce.Column)
	}
}

func TestReadSensorCsvDropsBadRows(t *testing.T) {
	path := writeCsv(t, "Timestamp,CT_R (A),CT_Y (A),CT_B (A)\n"+
		"2024-05-01 00:00:00,1,2,3\n"+
		"2024-05-01 00:01:00,,2,3\n"+ // blank field
		"not-a-time,1,2,3\n"+ // bad timestamp
		"2024-05-01 00:03:00,1,ERROR,3\n"+ // bad number
		"2024-05-01 00:04:00,4,5,6\n")

	rows, err := ICsvReadService.ReadSensorCsv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 surviving rows, got %d", len(rows))
	}
}

func TestReadSensorCsvSortsByTimestamp(t *testing.T) {
	path := writeCsv(t, "Timestamp,CT_R (A),CT_Y (A),CT_B (A)\n"+
		"2024-05-01 00:05:00,5,5,5\n"+
		"2024-05-01 00:01:00,1,1,1\n"+
		"2024-05-01 00:03:00,3,3,3\n")

	rows, err := ICsvReadService.ReadSensorCsv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Timestamp.Before(rows[i-1].Timestamp) {
			t.Fatalf("rows not sorted at index %d", i)
		}
	}
	if rows[0].CtR != 1 {
		t.Errorf("expected earliest row first, got CtR=%v", rows[0].CtR)
	}
}

func TestReadSensorCsvMissingFile(t *testing.T) {
	_, err := ICsvReadService.ReadSensorCsv(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseTimestampFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01 13:45:30", time.Date(2024, 5, 1, 13, 45, 30, 0, time.UTC)},
		{"2024-05-01 13:45", time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)},
		{"01/05/2024 13:45", time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := ICsvReadService.ParseTimestamp(c.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", c.in, err)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("%q: expected %v, got %v", c.in, c.want, got)
		}
	}

	if _, err := ICsvReadService.ParseTimestamp("13/32/2024"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestReadSensorCsvGeneratedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor_data.csv")
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := tools.GenerateSensorCsvNormal(path, start, 2, 1440); err != nil {
		t.Fatal(err)
	}

	rows, err := ICsvReadService.ReadSensorCsv(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2*1440 {
		t.Fatalf("expected %d rows, got %d", 2*1440, len(rows))
	}
	if !rows[0].Timestamp.Equal(start) {
		t.Errorf("expected first row at %v, got %v", start, rows[0].Timestamp)
	}
}

func TestReadSensorCsvGeneratedMalformedRowsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor_data.csv")
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := tools.GenerateSensorCsvMalformed(path, start, 1, 1440); err != nil {
		t.Fatal(err)
	}

	rows, err := ICsvReadService.ReadSensorCsv(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 || len(rows) > 1440 {
		t.Fatalf("expected between 1 and 1440 clean rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.CtR < 0 || r.CtY < 0 || r.CtB < 0 {
			t.Fatalf("unparseable cell leaked through: %+v", r)
		}
	}
}
