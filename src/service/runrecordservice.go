package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/entity"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/store"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/tools"
)

type RunRecordServiceImpl struct{}

// BeginRun records the start of an ETL run. Run bookkeeping is
// best-effort and never aborts the run itself.
func (r *RunRecordServiceImpl) BeginRun(ctx context.Context, st *store.Store, stage, filePath, device string) entity.PipelineRunEntity {
	start := time.Now().UTC()
	run := entity.PipelineRunEntity{
		RunId:      tools.NewUuid(),
		Stage:      stage,
		FilePath:   filePath,
		DeviceName: device,
		Status:     entity.RunInProgress,
		StartedAt:  &start,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		log.Logger.Warn("failed to record run start", zap.String("stage", stage), zap.Error(err))
	}
	return run
}

// EndRun marks a run as success or failed.
func (r *RunRecordServiceImpl) EndRun(ctx context.Context, st *store.Store, run entity.PipelineRunEntity, documents int, runErr error) {
	finish := time.Now().UTC()
	run.FinishedAt = &finish
	run.Documents = documents

	if runErr != nil {
		run.Status = entity.RunFailed
		msg := runErr.Error()
		run.ErrorMsg = &msg
		log.Logger.Error("pipeline run failed", zap.String("stage", run.Stage), zap.String("file", run.FilePath), zap.Error(runErr))
	} else {
		run.Status = entity.RunSuccess
		log.Logger.Info("pipeline run finished", zap.String("stage", run.Stage), zap.String("file", run.FilePath), zap.Int("documents", documents))
	}

	if err := st.SaveRun(ctx, run); err != nil {
		log.Logger.Warn("failed to record run completion", zap.String("stage", run.Stage), zap.Error(err))
	}
}
