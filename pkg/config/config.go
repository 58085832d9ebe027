package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models   ModelsConfig   `yaml:"models"`
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	S3       S3Config       `yaml:"s3"`
	Prompts  PromptsConfig  `yaml:"prompts"`
	App      AppSpecific    `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	DefaultChat string              `yaml:"default_chat"` // Алиас модели по умолчанию
	Definitions map[string]ModelDef `yaml:"definitions"`  // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider         string        `yaml:"provider"`   // "openai", "zai", "deepseek" и т.д.
	ModelName        string        `yaml:"model_name"` // Реальное имя в API
	APIKey           string        `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL          string        `yaml:"base_url"`   // Для OpenAI-совместимых провайдеров
	MaxTokens        int           `yaml:"max_tokens"`
	Temperature      float64       `yaml:"temperature"`
	TopP             float64       `yaml:"top_p"`
	FrequencyPenalty float64       `yaml:"frequency_penalty"`
	PresencePenalty  float64       `yaml:"presence_penalty"`
	Timeout          time.Duration `yaml:"timeout"` // Go умеет парсить строки вида "60s", "1m"
}

// DatabaseConfig — настройки SQL источника данных для db-цепочек.
type DatabaseConfig struct {
	Driver        string   `yaml:"driver"` // "sqlite3"
	DSN           string   `yaml:"dsn"`    // Поддерживает ${VAR}
	IncludeTables []string `yaml:"include_tables"`
	IgnoreTables  []string `yaml:"ignore_tables"`
	SampleRows    int      `yaml:"sample_rows"` // Строк-примеров в описании таблицы
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *DatabaseConfig) GetDefaults() DatabaseConfig {
	result := *c // Копируем текущие значения

	if result.Driver == "" {
		result.Driver = "sqlite3"
	}
	if result.SampleRows == 0 {
		result.SampleRows = 3
	}

	return result
}

// HTTPConfig — настройки HTTP клиента для http-цепочек.
type HTTPConfig struct {
	RateLimit  int    `yaml:"rate_limit"`  // Запросов в минуту
	BurstLimit int    `yaml:"burst_limit"` // Burst для rate limiter
	Timeout    string `yaml:"timeout"`     // Timeout для HTTP запросов (например, "30s")
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *HTTPConfig) GetDefaults() HTTPConfig {
	result := *c

	if result.RateLimit == 0 {
		result.RateLimit = 100 // запросов в минуту
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 5
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}

	return result
}

// S3Config — настройки объектного хранилища (источник шаблонов промптов).
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
}

// PromptsConfig — откуда загружать именованные шаблоны промптов.
type PromptsConfig struct {
	Dir      string `yaml:"dir"`       // Директория с YAML шаблонами
	S3Prefix string `yaml:"s3_prefix"` // Префикс в S3 bucket (опционально)
	Table    string `yaml:"table"`     // Таблица в БД (опционально)
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug bool `yaml:"debug"`
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.DefaultChat != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultChat]; !ok {
			return fmt.Errorf("default_chat model '%s' is not defined in definitions", c.Models.DefaultChat)
		}
	}
	if len(c.Database.IncludeTables) > 0 && len(c.Database.IgnoreTables) > 0 {
		return fmt.Errorf("database: cannot specify both include_tables and ignore_tables")
	}
	return nil
}

// Helper методы для удобства доступа (Syntactic sugar)

// GetChatModel возвращает конфигурацию модели по умолчанию или по имени.
func (c *AppConfig) GetChatModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultChat
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}
