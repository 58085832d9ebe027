// Zveno-cli — CLI утилита для выполнения одиночной цепочки.
//
// Использование:
//
//	./zveno-cli "запрос"
//	./zveno-cli -chain database "Сколько заказов за сегодня?"
//	./zveno-cli -chain http_request -url https://api.example.com/weather "Какая погода?"
//	./zveno-cli -model gpt-4o -debug "запрос"
//
// config.yaml должен находиться рядом с бинарником.
// Если config не найден — утилита падает с ошибкой.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/runner"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// Version — версия утилиты (заполняется при сборке)
var Version = "dev"

func main() {
	// 1. Парсим флаги
	var (
		configPath  = flag.String("config", "./config.yaml", "Path to config.yaml")
		modelName   = flag.String("model", "", "Override model name")
		chainType   = flag.String("chain", "llm", "Chain type: llm, http_request, database")
		apiURL      = flag.String("url", "", "API URL for http_request chain")
		sqlCmd      = flag.String("sql-cmd", "", "Pre-defined SQL command for database chain")
		debugFlag   = flag.Bool("debug", false, "Enable debug logging")
		showHelp    = flag.Bool("help", false, "Show help")
		showVersion = flag.Bool("version", false, "Show version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("zveno-cli version %s\n", Version)
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: query argument is required")
		fmt.Fprintln(os.Stderr, "Usage: zveno-cli [flags] \"query\"")
		fmt.Fprintln(os.Stderr, "Run 'zveno-cli -help' for more information")
		os.Exit(1)
	}

	userQuery := flag.Arg(0)

	// 2. Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config from %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	// 3. Инициализируем логгер
	if err := utils.InitLogger(*debugFlag || cfg.App.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Close()

	// 4. Собираем payload по виду цепочки
	payload := runner.ChainPayload{
		ChainType: *chainType,
		Prompt:    userQuery,
		ModelParameters: runner.ModelParameters{
			Model: *modelName,
		},
	}

	kind, err := runner.ParseChainKind(*chainType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	switch kind {
	case runner.KindHTTPRequest:
		if *apiURL == "" {
			fmt.Fprintln(os.Stderr, "Error: -url is required for http_request chain")
			os.Exit(1)
		}
		payload.HTTPRequest = &runner.HTTPRequest{APIURL: *apiURL}
	case runner.KindDatabase:
		payload.DBRequest = &runner.DBRequest{SQLCmd: *sqlCmd}
	case runner.KindLLM:
		// промпта достаточно
	}

	// 5. Выполняем цепочку
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	r := runner.New(cfg).WithSources(buildSources(cfg))

	result, err := r.RunChain(ctx, payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result)
}

// printHelp выводит справку
func printHelp() {
	fmt.Println("Zveno CLI — утилита для выполнения одиночной цепочки")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  zveno-cli [flags] \"query\"")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -chain string    Chain type: llm, http_request, database (default \"llm\")")
	fmt.Println("  -config string   Path to config.yaml (default \"./config.yaml\")")
	fmt.Println("  -model string    Override model name")
	fmt.Println("  -url string      API URL for http_request chain")
	fmt.Println("  -sql-cmd string  Pre-defined SQL command for database chain")
	fmt.Println("  -debug           Enable debug logging")
	fmt.Println("  -version         Show version")
	fmt.Println("  -help            Show this help")
}
