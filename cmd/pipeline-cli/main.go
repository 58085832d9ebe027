// Pipeline-cli — CLI утилита для выполнения конвейера цепочек.
//
// Использование:
//
//	./pipeline-cli -payload pipeline.yaml
//	./pipeline-cli -payload pipeline.yaml -debug
//
// Payload — YAML файл со структурой MultiChainsPayload: общий промпт,
// упорядоченный список шагов и параметры финальной модели. Выход
// каждого шага подставляется в общий промпт на место {output_variable}.
//
// Пример payload:
//
//	prompt: "Temperature is {weatherTemp}. Suggest clothing."
//	model_parameters:
//	  model: gpt-4o
//	chains:
//	  - chain_type: http_request
//	    prompt: "What is the temperature?"
//	    output_variable: weatherTemp
//	    http_request:
//	      api_url: https://api.example.com/weather
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"

	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/prompts"
	"github.com/ilkoid/zveno-ai/pkg/prompts/sources"
	"github.com/ilkoid/zveno-ai/pkg/runner"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// Version — версия утилиты (заполняется при сборке)
var Version = "dev"

func main() {
	// 1. Парсим флаги
	var (
		configPath  = flag.String("config", "./config.yaml", "Path to config.yaml")
		payloadPath = flag.String("payload", "", "Path to pipeline payload YAML")
		debugFlag   = flag.Bool("debug", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Show version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("pipeline-cli version %s\n", Version)
		os.Exit(0)
	}

	if *payloadPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -payload argument is required")
		fmt.Fprintln(os.Stderr, "Usage: pipeline-cli -payload pipeline.yaml")
		os.Exit(1)
	}

	// 2. Загружаем конфигурацию и payload
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config from %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	rawPayload, err := os.ReadFile(*payloadPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading payload from %s: %v\n", *payloadPath, err)
		os.Exit(1)
	}

	var payload runner.MultiChainsPayload
	if err := yaml.Unmarshal(rawPayload, &payload); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing payload YAML: %v\n", err)
		os.Exit(1)
	}

	// 3. Инициализируем логгер
	if err := utils.InitLogger(*debugFlag || cfg.App.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Close()

	// 4. Выполняем конвейер
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	r := runner.New(cfg).WithSources(buildSources(cfg))

	result, err := r.RunChains(ctx, payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result)
}

// buildSources собирает реестр источников шаблонов из конфигурации.
func buildSources(cfg *config.AppConfig) *prompts.SourceRegistry {
	registry := prompts.NewSourceRegistry()

	if cfg.Prompts.Dir != "" {
		registry.AddSource(sources.NewFileSource(cfg.Prompts.Dir))
	}

	if cfg.S3.Bucket != "" {
		s3Source, err := sources.NewS3Source(cfg.S3, cfg.Prompts.S3Prefix)
		if err != nil {
			utils.Warn("Failed to create S3 prompt source", "error", err)
		} else {
			registry.AddSource(s3Source)
		}
	}

	return registry
}
