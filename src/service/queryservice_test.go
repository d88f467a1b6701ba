package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MPEnsystemsDeveloper/trim-v1/entity"
)

// fakeStore captures the windows the query service asks for.
type fakeStore struct {
	devices     []string
	latestRead  time.Time
	hasReadings bool
	readings    []entity.ProcessedReadingEntity
	latestDate  time.Time
	hasSummary  bool
	summaries   []entity.DailySummaryEntity

	readFrom, readTo time.Time
	sumFrom, sumTo   time.Time
}

func (f *fakeStore) DistinctDevices(ctx context.Context) ([]string, error) {
	return f.devices, nil
}

func (f *fakeStore) LatestReadingTime(ctx context.Context, device string) (time.Time, bool, error) {
	return f.latestRead, f.hasReadings, nil
}

func (f *fakeStore) ReadingsInRange(ctx context.Context, device string, from, to time.Time) ([]entity.ProcessedReadingEntity, error) {
	f.readFrom, f.readTo = from, to
	return f.readings, nil
}

func (f *fakeStore) LatestSummaryDate(ctx context.Context, device string) (time.Time, bool, error) {
	return f.latestDate, f.hasSummary, nil
}

func (f *fakeStore) SummariesInRange(ctx context.Context, device string, from, to time.Time) ([]entity.DailySummaryEntity, error) {
	f.sumFrom, f.sumTo = from, to
	return f.summaries, nil
}

func TestParseDateTimeInput(t *testing.T) {
	got, ok, err := ParseDateTimeInput("2024-05-01", "13:45", "00:00")
	if err != nil || !ok {
		t.Fatalf("unexpected: ok=%v err=%v", ok, err)
	}
	if !got.Equal(time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)) {
		t.Errorf("wrong instant: %v", got)
	}

	got, ok, err = ParseDateTimeInput("2024-05-01", "", "23:59")
	if err != nil || !ok {
		t.Fatalf("unexpected: ok=%v err=%v", ok, err)
	}
	if got.Hour() != 23 || got.Minute() != 59 {
		t.Errorf("default time not applied: %v", got)
	}

	if _, ok, err := ParseDateTimeInput("", "10:00", "00:00"); ok || err != nil {
		t.Errorf("empty date must be ok=false err=nil, got ok=%v err=%v", ok, err)
	}

	for _, bad := range []string{"13/32/2024", "2024-13-01", "2024-05-32", "yesterday"} {
		if _, _, err := ParseDateTimeInput(bad, "00:00", "00:00"); !errors.Is(err, ErrInvalidDateTime) {
			t.Errorf("%q: expected ErrInvalidDateTime, got %v", bad, err)
		}
	}
	if _, _, err := ParseDateTimeInput("2024-05-01", "25:00", "00:00"); !errors.Is(err, ErrInvalidDateTime) {
		t.Error("expected ErrInvalidDateTime for bad time")
	}
}

func TestBucketReadingsFourHourExample(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	readings := []entity.ProcessedReadingEntity{
		{Timestamp: day.Add(1 * time.Hour), TotalPower: 1.0},
		{Timestamp: day.Add(3 * time.Hour), TotalPower: 3.0},
	}

	buckets := BucketReadings(readings, 4)
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if !buckets[0].Timestamp.Equal(day) {
		t.Errorf("expected bucket start %v, got %v", day, buckets[0].Timestamp)
	}
	if buckets[0].TotalPower != 2.0 {
		t.Errorf("expected average total power 2.0, got %v", buckets[0].TotalPower)
	}
}

func TestBucketReadingsAbsoluteAnchoring(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	readings := []entity.ProcessedReadingEntity{
		{Timestamp: day.Add(3*time.Hour + 59*time.Minute), CtR: 2},
		{Timestamp: day.Add(4 * time.Hour), CtR: 4},
		{Timestamp: day.Add(7 * time.Hour), CtR: 6},
	}

	buckets := BucketReadings(readings, 4)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if !buckets[0].Timestamp.Equal(day) || !buckets[1].Timestamp.Equal(day.Add(4*time.Hour)) {
		t.Errorf("buckets not anchored to absolute boundaries: %v %v",
			buckets[0].Timestamp, buckets[1].Timestamp)
	}
	if buckets[0].CtR != 2 || buckets[1].CtR != 5 {
		t.Errorf("wrong bucket averages: %v %v", buckets[0].CtR, buckets[1].CtR)
	}
}

func TestBucketReadingsEmpty(t *testing.T) {
	buckets := BucketReadings(nil, 1)
	if buckets == nil || len(buckets) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", buckets)
	}
}

func TestProcessedDefaultWindow(t *testing.T) {
	latest := time.Date(2024, 5, 10, 18, 30, 0, 0, time.UTC)
	fs := &fakeStore{hasReadings: true, latestRead: latest}
	q := NewQueryServiceImpl(fs)

	if _, _, err := q.Processed(context.Background(), ProcessedQuery{Device: "dev"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.readTo.Equal(latest) {
		t.Errorf("window must end at latest reading, got %v", fs.readTo)
	}
	if !fs.readFrom.Equal(latest.Add(-24 * time.Hour)) {
		t.Errorf("window must start 24h before latest, got %v", fs.readFrom)
	}
}

func TestProcessedNoDataReturnsEmpty(t *testing.T) {
	q := NewQueryServiceImpl(&fakeStore{hasReadings: false})

	readings, buckets, err := q.Processed(context.Background(), ProcessedQuery{Device: "ghost"})
	if err != nil {
		t.Fatalf("no data must not be an error: %v", err)
	}
	if buckets != nil || readings == nil || len(readings) != 0 {
		t.Fatalf("expected empty readings list, got %v / %v", readings, buckets)
	}
}

func TestProcessedValidation(t *testing.T) {
	q := NewQueryServiceImpl(&fakeStore{})

	if _, _, err := q.Processed(context.Background(), ProcessedQuery{}); !errors.Is(err, ErrDeviceRequired) {
		t.Errorf("expected ErrDeviceRequired, got %v", err)
	}
	if _, _, err := q.Processed(context.Background(), ProcessedQuery{Device: "dev", Interval: "2hr"}); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
	pq := ProcessedQuery{Device: "dev", StartDate: "13/32/2024"}
	if _, _, err := q.Processed(context.Background(), pq); !errors.Is(err, ErrInvalidDateTime) {
		t.Errorf("expected ErrInvalidDateTime, got %v", err)
	}
}

func TestDailyDefaultWindow(t *testing.T) {
	latest := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	fs := &fakeStore{hasSummary: true, latestDate: latest}
	q := NewQueryServiceImpl(fs)

	if _, err := q.Daily(context.Background(), "dev", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.sumTo.Equal(latest) {
		t.Errorf("window must end at latest summary date, got %v", fs.sumTo)
	}
	if !fs.sumFrom.Equal(latest.AddDate(0, 0, -6)) {
		t.Errorf("window must start 6 days before latest, got %v", fs.sumFrom)
	}
}

func TestDailyNoDataReturnsEmpty(t *testing.T) {
	q := NewQueryServiceImpl(&fakeStore{hasSummary: false})

	summaries, err := q.Daily(context.Background(), "ghost", "", "")
	if err != nil {
		t.Fatalf("no data must not be an error: %v", err)
	}
	if summaries == nil || len(summaries) != 0 {
		t.Fatalf("expected empty list, got %v", summaries)
	}
}

func TestDailyExplicitRangeTimes(t *testing.T) {
	fs := &fakeStore{}
	q := NewQueryServiceImpl(fs)

	if _, err := q.Daily(context.Background(), "dev", "2024-05-01", "2024-05-03"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.sumFrom.Hour() != 0 || fs.sumFrom.Minute() != 0 {
		t.Errorf("start must default to 00:00, got %v", fs.sumFrom)
	}
	if fs.sumTo.Hour() != 23 || fs.sumTo.Minute() != 59 {
		t.Errorf("end must default to 23:59, got %v", fs.sumTo)
	}
}
