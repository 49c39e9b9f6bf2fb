package config

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestConfigProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("ports in range validate", prop.ForAll(
		func(port int) bool {
			cfg := DefaultConfig()
			cfg.Addr = fmt.Sprintf(":%d", port)
			return cfg.Validate() == nil
		},
		gen.IntRange(1, 65535),
	))

	properties.Property("ports out of range fail", prop.ForAll(
		func(port int) bool {
			cfg := DefaultConfig()
			cfg.Addr = fmt.Sprintf(":%d", port)
			return cfg.Validate() != nil
		},
		gen.IntRange(65536, 1<<20),
	))

	properties.Property("only known levels validate", prop.ForAll(
		func(level string) bool {
			cfg := DefaultConfig()
			cfg.LogLevel = level
			known := level == "debug" || level == "info" || level == "warn" || level == "error"
			return (cfg.Validate() == nil) == known
		},
		gen.OneConstOf("debug", "info", "warn", "error", "trace", "loud", ""),
	))

	properties.TestingRun(t)
}
