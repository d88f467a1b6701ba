package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	config "github.com/MPEnsystemsDeveloper/trim-v1/config/circuitbreaker"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/entity"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/store"
)

type AggregateServiceImpl struct{}

// SummarizeDaily buckets readings by calendar day (UTC), sums each
// phase's current over the day and derives the day's energy. Each
// reading stands for one minute of constant current, so a day's kWh is
// (sum of amps x 230 / 1000) / 60: summing currents first and dividing
// the aggregate once is equivalent to integrating row by row.
func (a *AggregateServiceImpl) SummarizeDaily(rows []RawReading, device string) []entity.DailySummaryEntity {
	type sums struct {
		r, y, b float64
	}
	byDay := map[time.Time]*sums{}
	for _, row := range rows {
		ts := row.Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		s, ok := byDay[day]
		if !ok {
			s = &sums{}
			byDay[day] = s
		}
		s.r += row.CtR
		s.y += row.CtY
		s.b += row.CtB
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	docs := make([]entity.DailySummaryEntity, 0, len(days))
	for _, day := range days {
		s := byDay[day]
		totalAmps := s.r + s.y + s.b
		docs = append(docs, entity.DailySummaryEntity{
			Date:       day,
			SumCtR:     s.r,
			SumCtY:     s.y,
			SumCtB:     s.b,
			TotalKWh:   totalAmps * NominalVoltage / 1000 / 60,
			DeviceName: device,
		})
	}
	return docs
}

// RunAggregate reads the raw CSV, summarizes it per day and replaces
// the daily collection's contents atomically. Replaying the same input
// yields the same collection state. Empty input after cleaning is a
// reported no-op, not an error.
func (a *AggregateServiceImpl) RunAggregate(ctx context.Context, st *store.Store, filePath, device string) (int, error) {
	rows, err := ICsvReadService.ReadSensorCsv(filePath)
	if err != nil {
		return 0, err
	}

	docs := a.SummarizeDaily(rows, device)
	if len(docs) == 0 {
		log.Logger.Info("no data to process after cleaning", zap.String("file", filePath))
		return 0, nil
	}

	err = config.StoreWithCircuitBreaker(func() error {
		return st.ReplaceDailySummaries(ctx, docs)
	})
	if err != nil {
		return 0, err
	}

	log.Logger.Info("daily summaries replaced",
		zap.String("file", filePath),
		zap.String("device", device),
		zap.Int("days", len(docs)))
	return len(docs), nil
}
