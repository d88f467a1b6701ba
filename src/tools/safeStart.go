package tools

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/MPEnsystemsDeveloper/trim-v1/config/log"
	"github.com/MPEnsystemsDeveloper/trim-v1/config/toml"
)

// SafeStart initializes the logger with panic recovery
func SafeStart() {
	// Recover panics in main startup
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("Recovered panic in main startup:", r)
		}
	}()

	log.InitLogger(toml.GetConfig().Log.Path, toml.GetConfig().Log.Level)
}

// GoSafe runs f in a goroutine that logs instead of crashing on panic.
func GoSafe(name string, f func()) {
	NewPanicGroup().Go(func() {
		defer func() {
			if r := recover(); r != nil {
				log.Logger.Error("Recovered panic", zap.String("task", name), zap.Any("panic", r))
			}
		}()
		f()
	})
}
