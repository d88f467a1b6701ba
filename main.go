package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/cronjob"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/api"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/cron"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/service"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/store"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/tools"
)

func main() {
	tools.SafeStart()

	cfg := toml.GetConfig()
	if err := toml.ValidateMongo(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if cfg.Cron.Enabled {
		// the scheduled pipeline scrapes the portal, so it needs the
		// full set of credentials up front
		if err := toml.ValidatePortal(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	// one store handle for the process lifetime, closed on shutdown
	st, err := store.Open(context.Background(), cfg.Mongo.Uri, cfg.Mongo.Database)
	if err != nil {
		log.Logger.Error("store unreachable at startup", zap.Error(err))
		os.Exit(1)
	}

	tools.GoSafe("pipeline cron", cron.SchedulePipeline)

	r := api.NewRouter(service.NewQueryServiceImpl(st))
	s := &http.Server{
		Addr:           cfg.Http.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger.Error("server stopped", zap.Error(err))
		}
	}()
	log.Logger.Info("api listening", zap.String("addr", cfg.Http.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Logger.Warn("server shutdown", zap.Error(err))
	}
	cronjob.StopCJ()
	if err := st.Close(); err != nil {
		log.Logger.Warn("store close", zap.Error(err))
	}
}
