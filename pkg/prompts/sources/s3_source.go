package sources

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"

	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/prompts"
)

// S3Source — загрузка шаблонов из S3-совместимого хранилища.
//
// Ключ объекта: <prefix><name>.yaml
type S3Source struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3Source создаёт источник шаблонов из S3 по конфигурации.
func NewS3Source(cfg config.S3Config, prefix string) (*S3Source, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
	}, nil
}

// Load загружает шаблон из объекта в bucket.
func (s *S3Source) Load(ctx context.Context, name string) (*prompts.TemplateFile, error) {
	key := s.prefix + name + ".yaml"

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3 object '%s': %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		// minio отдаёт ошибку существования объекта при первом чтении
		if errResp := minio.ToErrorResponse(err); errResp.Code == "NoSuchKey" ||
			strings.Contains(err.Error(), "does not exist") {
			return nil, fmt.Errorf("%w: s3 key '%s'", prompts.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read s3 object '%s': %w", key, err)
	}

	var file prompts.TemplateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template YAML: %w", err)
	}

	return &file, nil
}

// Ensure S3Source implements TemplateSource
var _ prompts.TemplateSource = (*S3Source)(nil)
