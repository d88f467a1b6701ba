package cron

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/cronjob"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/scraper"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/service"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/store"
)

// SchedulePipeline registers the nightly scrape-transform-aggregate run
// when enabled in config. The one-shot cmd jobs remain the manual way
// to run each stage.
func SchedulePipeline() {
	cfg := toml.GetConfig()
	if !cfg.Cron.Enabled {
		return
	}

	_cron := cronjob.GetCJ()
	_, err := _cron.AddFunc(cfg.Cron.Schedule, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Logger.Error("Recovered from panic in cron job", zap.Any("panic", r))
			}
		}()
		RunPipeline()
	})
	if err != nil {
		log.Logger.Error("failed to schedule pipeline", zap.String("schedule", cfg.Cron.Schedule), zap.Error(err))
		return
	}
	log.Logger.Info("pipeline scheduled", zap.String("schedule", cfg.Cron.Schedule))
}

// RunPipeline performs one full ingestion: portal scrape, then the two
// ETL stages against the downloaded file. Each stage can fail
// independently; the transform's failure stops the aggregate since
// both read the same export.
func RunPipeline() {
	cfg := toml.GetConfig()
	ctx := context.Background()
	log.Logger.Info("pipeline run triggered", zap.Time("timestamp", time.Now().UTC()))

	csvPath, err := scraper.New(cfg).FetchDailyExport(ctx)
	if err != nil {
		log.Logger.Error("scrape failed, pipeline aborted", zap.Error(err))
		return
	}

	st, err := store.Open(ctx, cfg.Mongo.Uri, cfg.Mongo.Database)
	if err != nil {
		log.Logger.Error("store unreachable, pipeline aborted", zap.Error(err))
		return
	}
	defer st.Close()

	device := cfg.Device.Name

	run := service.IRunRecordService.BeginRun(ctx, st, "transform", csvPath, device)
	n, err := service.ITransformService.RunTransform(ctx, st, csvPath, device)
	service.IRunRecordService.EndRun(ctx, st, run, n, err)
	if err != nil {
		return
	}

	run = service.IRunRecordService.BeginRun(ctx, st, "aggregate", csvPath, device)
	n, err = service.IAggregateService.RunAggregate(ctx, st, csvPath, device)
	service.IRunRecordService.EndRun(ctx, st, run, n, err)
}
