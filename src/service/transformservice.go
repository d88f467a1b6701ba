package service

import (
	"context"

	"go.uber.org/zap"

	config "github.com/MPEnsystemsDeveloper/trim-v1/config/circuitbreaker"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/entity"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/store"
)

// NominalVoltage is the fixed line voltage used for all power and
// energy derivations. Not configurable.
const NominalVoltage = 230.0

type TransformServiceImpl struct{}

// Derive computes per-phase and total power for each cleaned reading
// and tags it with the device name.
func (t *TransformServiceImpl) Derive(rows []RawReading, device string) []entity.ProcessedReadingEntity {
	docs := make([]entity.ProcessedReadingEntity, 0, len(rows))
	for _, r := range rows {
		rp := r.CtR * NominalVoltage / 1000
		yp := r.CtY * NominalVoltage / 1000
		bp := r.CtB * NominalVoltage / 1000
		docs = append(docs, entity.ProcessedReadingEntity{
			Timestamp:  r.Timestamp,
			CtR:        r.CtR,
			CtY:        r.CtY,
			CtB:        r.CtB,
			RPower:     rp,
			YPower:     yp,
			BPower:     bp,
			TotalPower: rp + yp + bp,
			DeviceName: device,
		})
	}
	return docs
}

// RunTransform reads the raw CSV, derives power columns and appends the
// result to the processed collection. The collection is never cleared
// here: repeated runs over the same file duplicate documents.
func (t *TransformServiceImpl) RunTransform(ctx context.Context, st *store.Store, filePath, device string) (int, error) {
	rows, err := ICsvReadService.ReadSensorCsv(filePath)
	if err != nil {
		return 0, err
	}

	docs := t.Derive(rows, device)
	if len(docs) == 0 {
		log.Logger.Info("no data to insert after cleaning", zap.String("file", filePath))
		return 0, nil
	}

	var inserted int
	err = config.StoreWithCircuitBreaker(func() error {
		n, insErr := st.InsertProcessed(ctx, docs)
		inserted = n
		return insErr
	})
	if err != nil {
		return inserted, err
	}

	log.Logger.Info("processed readings inserted",
		zap.String("file", filePath),
		zap.String("device", device),
		zap.Int("documents", inserted))
	return inserted, nil
}
