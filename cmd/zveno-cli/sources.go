package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/prompts"
	"github.com/ilkoid/zveno-ai/pkg/prompts/sources"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// buildSources собирает реестр источников шаблонов из конфигурации.
//
// Порядок fallback: файлы → S3 → база данных. Недоступный источник
// пропускается с warning-ом, а не валит утилиту: prompt_ref может
// вообще не использоваться в этом запуске.
func buildSources(cfg *config.AppConfig) *prompts.SourceRegistry {
	registry := prompts.NewSourceRegistry()

	if cfg.Prompts.Dir != "" {
		registry.AddSource(sources.NewFileSource(cfg.Prompts.Dir))
	}

	if cfg.S3.Bucket != "" {
		s3Source, err := sources.NewS3Source(cfg.S3, cfg.Prompts.S3Prefix)
		if err != nil {
			utils.Warn("Failed to create S3 prompt source", "error", err)
			fmt.Fprintf(os.Stderr, "Warning: S3 prompt source unavailable: %v\n", err)
		} else {
			registry.AddSource(s3Source)
		}
	}

	if cfg.Prompts.Table != "" && cfg.Database.DSN != "" {
		db, err := sql.Open(cfg.Database.GetDefaults().Driver, cfg.Database.DSN)
		if err != nil {
			utils.Warn("Failed to open prompt database source", "error", err)
			fmt.Fprintf(os.Stderr, "Warning: database prompt source unavailable: %v\n", err)
		} else {
			registry.AddSource(sources.NewDatabaseSource(db, cfg.Prompts.Table))
		}
	}

	return registry
}
