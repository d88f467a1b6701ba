package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	redisUtil "github.com/MPEnsystemsDeveloper/trim-v1/config/redis"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
	"github.com/MPEnsystemsDeveloper/trim-v1/entity"
)

// ReadingsStore is the read surface the query service needs from the
// document store.
type ReadingsStore interface {
	DistinctDevices(ctx context.Context) ([]string, error)
	LatestReadingTime(ctx context.Context, device string) (time.Time, bool, error)
	ReadingsInRange(ctx context.Context, device string, from, to time.Time) ([]entity.ProcessedReadingEntity, error)
	LatestSummaryDate(ctx context.Context, device string) (time.Time, bool, error)
	SummariesInRange(ctx context.Context, device string, from, to time.Time) ([]entity.DailySummaryEntity, error)
}

// intervalHours maps the accepted bucket selectors to their width.
var intervalHours = map[string]int{
	"1hr":  1,
	"4hr":  4,
	"8hr":  8,
	"12hr": 12,
	"24hr": 24,
}

const devicesCacheKey = "devices"

// BucketedReading is one fixed-width hour bucket with every numeric
// field averaged over its member readings.
type BucketedReading struct {
	Timestamp  time.Time `json:"timestamp"`
	CtR        float64   `json:"ct_r_a"`
	CtY        float64   `json:"ct_y_a"`
	CtB        float64   `json:"ct_b_a"`
	RPower     float64   `json:"r_power_kw"`
	YPower     float64   `json:"y_power_kw"`
	BPower     float64   `json:"b_power_kw"`
	TotalPower float64   `json:"total_power_kw"`
}

// ProcessedQuery carries the raw query parameters of GET /processed.
type ProcessedQuery struct {
	Device    string
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
	Interval  string
}

type QueryServiceImpl struct {
	store ReadingsStore
}

func NewQueryServiceImpl(st ReadingsStore) *QueryServiceImpl {
	return &QueryServiceImpl{store: st}
}

// Devices returns the sorted union of device names across both
// collections. The result is cached in Redis for a short TTL since the
// frontend polls it; a missing or down cache falls through to the store.
func (q *QueryServiceImpl) Devices(ctx context.Context) ([]string, error) {
	rc, rcErr := redisUtil.GetRedisClient()
	if rcErr == nil {
		if cached := rc.RGet(devicesCacheKey); cached != "" {
			var names []string
			if err := json.Unmarshal([]byte(cached), &names); err == nil {
				return names, nil
			}
		}
	}

	names, err := q.store.DistinctDevices(ctx)
	if err != nil {
		return nil, err
	}

	if rcErr == nil {
		if b, err := json.Marshal(names); err == nil {
			ttl := toml.GetConfig().Redis.DeviceCacheTTL
			if ttl <= 0 {
				ttl = 30
			}
			if setErr := rc.RSet(devicesCacheKey, string(b), ttl).Err(); setErr != nil {
				log.Logger.Warn("device cache write failed", zap.Error(setErr))
			}
		}
	}
	return names, nil
}

// Processed answers GET /processed: raw readings or hour buckets for a
// device. Exactly one of the two returned slices is non-nil. A device
// with no readings yields an empty raw list, never an error.
func (q *QueryServiceImpl) Processed(ctx context.Context, pq ProcessedQuery) ([]entity.ProcessedReadingEntity, []BucketedReading, error) {
	if pq.Device == "" {
		return nil, nil, ErrDeviceRequired
	}
	interval := pq.Interval
	if interval == "" {
		interval = "raw"
	}
	if _, ok := intervalHours[interval]; !ok && interval != "raw" {
		return nil, nil, ErrInvalidInterval
	}

	start, hasStart, err := ParseDateTimeInput(pq.StartDate, pq.StartTime, "00:00")
	if err != nil {
		return nil, nil, err
	}
	end, hasEnd, err := ParseDateTimeInput(pq.EndDate, pq.EndTime, "00:00")
	if err != nil {
		return nil, nil, err
	}

	// default window: the 24 hours ending at the device's most recent
	// reading, not wall-clock now
	if !hasStart || !hasEnd {
		latest, ok, err := q.store.LatestReadingTime(ctx, pq.Device)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return []entity.ProcessedReadingEntity{}, nil, nil
		}
		end = latest
		start = latest.Add(-24 * time.Hour)
	}

	readings, err := q.store.ReadingsInRange(ctx, pq.Device, start, end)
	if err != nil {
		return nil, nil, err
	}
	if interval == "raw" {
		return readings, nil, nil
	}
	return nil, BucketReadings(readings, intervalHours[interval]), nil
}

// Daily answers GET /daily-consumption: a device's daily summaries in
// range, ascending by date.
func (q *QueryServiceImpl) Daily(ctx context.Context, device, startDate, endDate string) ([]entity.DailySummaryEntity, error) {
	if device == "" {
		return nil, ErrDeviceRequired
	}

	start, hasStart, err := ParseDateTimeInput(startDate, "", "00:00")
	if err != nil {
		return nil, err
	}
	end, hasEnd, err := ParseDateTimeInput(endDate, "", "23:59")
	if err != nil {
		return nil, err
	}

	// default window: the 7 days ending at the most recent summary date
	if !hasStart || !hasEnd {
		latest, ok, err := q.store.LatestSummaryDate(ctx, device)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []entity.DailySummaryEntity{}, nil
		}
		end = latest
		start = latest.AddDate(0, 0, -6)
	}

	return q.store.SummariesInRange(ctx, device, start, end)
}

// ParseDateTimeInput parses an optional date plus optional time into an
// instant. An empty date reports ok=false with no error; a supplied
// value must match YYYY-MM-DD / HH:MM exactly.
func ParseDateTimeInput(dateStr, timeStr, defaultTime string) (time.Time, bool, error) {
	if dateStr == "" {
		return time.Time{}, false, nil
	}
	if timeStr == "" {
		timeStr = defaultTime
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, time.UTC)
	if err != nil {
		return time.Time{}, false, ErrInvalidDateTime
	}
	return t, true, nil
}

// BucketReadings groups readings into fixed-width hour buckets anchored
// to absolute time and averages every numeric field per bucket. Input
// is assumed ascending by timestamp, output is ascending by bucket
// start.
func BucketReadings(readings []entity.ProcessedReadingEntity, hours int) []BucketedReading {
	width := time.Duration(hours) * time.Hour

	var buckets []BucketedReading
	counts := []int{}
	index := map[time.Time]int{}
	for _, r := range readings {
		bucketStart := r.Timestamp.UTC().Truncate(width)
		i, ok := index[bucketStart]
		if !ok {
			i = len(buckets)
			index[bucketStart] = i
			buckets = append(buckets, BucketedReading{Timestamp: bucketStart})
			counts = append(counts, 0)
		}
		b := &buckets[i]
		b.CtR += r.CtR
		b.CtY += r.CtY
		b.CtB += r.CtB
		b.RPower += r.RPower
		b.YPower += r.YPower
		b.BPower += r.BPower
		b.TotalPower += r.TotalPower
		counts[i]++
	}

	for i := range buckets {
		n := float64(counts[i])
		b := &buckets[i]
		b.CtR /= n
		b.CtY /= n
		b.CtB /= n
		b.RPower /= n
		b.YPower /= n
		b.BPower /= n
		b.TotalPower /= n
	}
	if buckets == nil {
		return []BucketedReading{}
	}
	return buckets
}
