package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/service"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/store"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/tools"
)

func main() {
	file := flag.String("file", "", "raw sensor CSV path (defaults to pipeline.RawFile)")
	flag.Parse()

	tools.SafeStart()

	if err := run(*file); err != nil {
		fmt.Println("aggregate failed:", err)
		os.Exit(1)
	}
}

func run(file string) error {
	if err := toml.ValidateMongo(); err != nil {
		return err
	}
	if err := toml.ValidateDevice(); err != nil {
		return err
	}
	cfg := toml.GetConfig()
	if file == "" {
		file = cfg.Pipeline.RawFile
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Mongo.Uri, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runRec := service.IRunRecordService.BeginRun(ctx, st, "aggregate", file, cfg.Device.Name)
	n, err := service.IAggregateService.RunAggregate(ctx, st, file, cfg.Device.Name)
	service.IRunRecordService.EndRun(ctx, st, runRec, n, err)
	return err
}
