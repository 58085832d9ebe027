package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ilkoid/zveno-ai/pkg/prompts"
)

// FileSource — загрузка шаблонов из YAML файлов.
//
// Использует baseDir для поиска файлов: <baseDir>/<name>.yaml
type FileSource struct {
	baseDir string
}

// NewFileSource создаёт FileSource с указанной базовой директорией.
//
// baseDir обычно берётся из cfg.Prompts.Dir.
func NewFileSource(baseDir string) *FileSource {
	return &FileSource{
		baseDir: baseDir,
	}
}

// Load загружает шаблон из YAML файла.
func (s *FileSource) Load(_ context.Context, name string) (*prompts.TemplateFile, error) {
	path := filepath.Join(s.baseDir, name+".yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", prompts.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read prompt template file: %w", err)
	}

	var file prompts.TemplateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template YAML: %w", err)
	}

	return &file, nil
}

// Ensure FileSource implements TemplateSource
var _ prompts.TemplateSource = (*FileSource)(nil)
