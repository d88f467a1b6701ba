package service

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestSummarizeDailyEnergyFormula(t *testing.T) {
	// 1200 summed amp-units over one day must give exactly 4.6 kWh
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := []RawReading{
		{Timestamp: day.Add(1 * time.Minute), CtR: 100, CtY: 200, CtB: 300},
		{Timestamp: day.Add(2 * time.Minute), CtR: 200, CtY: 100, CtB: 300},
	}

	docs := IAggregateService.SummarizeDaily(rows, "dev")
	if len(docs) != 1 {
		t.Fatalf("expected 1 day, got %d", len(docs))
	}
	d := docs[0]
	if d.SumCtR != 300 || d.SumCtY != 300 || d.SumCtB != 600 {
		t.Errorf("wrong sums: %+v", d)
	}
	if math.Abs(d.TotalKWh-4.6) > 1e-12 {
		t.Errorf("expected 4.6 kWh, got %v", d.TotalKWh)
	}
	if !d.Date.Equal(day) {
		t.Errorf("expected date %v, got %v", day, d.Date)
	}
}

func TestSummarizeDailyBucketsByCalendarDay(t *testing.T) {
	rows := []RawReading{
		{Timestamp: time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC), CtR: 1},
		{Timestamp: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), CtR: 2},
		{Timestamp: time.Date(2024, 5, 2, 12, 30, 0, 0, time.UTC), CtR: 3},
		{Timestamp: time.Date(2024, 5, 4, 6, 0, 0, 0, time.UTC), CtR: 4},
	}

	docs := IAggregateService.SummarizeDaily(rows, "dev")
	if len(docs) != 3 {
		t.Fatalf("expected 3 days, got %d", len(docs))
	}
	if docs[0].SumCtR != 1 || docs[1].SumCtR != 5 || docs[2].SumCtR != 4 {
		t.Errorf("wrong per-day sums: %v %v %v", docs[0].SumCtR, docs[1].SumCtR, docs[2].SumCtR)
	}
	for i := 1; i < len(docs); i++ {
		if !docs[i].Date.After(docs[i-1].Date) {
			t.Fatalf("days not ascending at index %d", i)
		}
	}
}

func TestSummarizeDailyIsDeterministic(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]RawReading, 0, 3*1440)
	for d := 0; d < 3; d++ {
		for m := 0; m < 1440; m++ {
			rows = append(rows, RawReading{
				Timestamp: base.AddDate(0, 0, d).Add(time.Duration(m) * time.Minute),
				CtR:       float64(m % 7),
				CtY:       float64(m % 11),
				CtB:       float64(m % 13),
			})
		}
	}

	first := IAggregateService.SummarizeDaily(rows, "dev")
	second := IAggregateService.SummarizeDaily(rows, "dev")
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same input produced different summaries")
	}
}

func TestSummarizeDailyEmptyInput(t *testing.T) {
	docs := IAggregateService.SummarizeDaily(nil, "dev")
	if len(docs) != 0 {
		t.Fatalf("expected no summaries, got %d", len(docs))
	}
}

func TestSummarizeDailyTagsDevice(t *testing.T) {
	rows := []RawReading{{Timestamp: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), CtR: 1, CtY: 1, CtB: 1}}
	docs := IAggregateService.SummarizeDaily(rows, "compressor-7")
	if docs[0].DeviceName != "compressor-7" {
		t.Errorf("expected device tag, got %q", docs[0].DeviceName)
	}
}
