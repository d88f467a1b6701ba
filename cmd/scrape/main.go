package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/scraper"
	"github.com/MPEnsystemsDeveloper/trim-v1/src/tools"
)

func main() {
	tools.SafeStart()

	if err := run(); err != nil {
		fmt.Println("scrape failed:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := toml.ValidatePortal(); err != nil {
		return err
	}
	cfg := toml.GetConfig()

	path, err := scraper.New(cfg).FetchDailyExport(context.Background())
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
