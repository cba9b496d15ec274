package s3

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"dogfarm/internal/ports/blob"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store implementa el bucket de media sobre un backend S3-compatible
// (AWS S3 o MinIO). Superficie mínima: un solo bucket, keys directas.
type Store struct {
	client *awss3.Client
	bucket string
	region string

	// endpoint explícito (MinIO) y base para URLs públicas
	endpoint      string
	pathStyle     bool
	publicBaseURL string
}

type Config struct {
	Region          string
	Bucket          string
	Endpoint        string // opcional; habilita endpoint custom (MinIO)
	AccessKeyID     string // opcional (si falta, cadena de credenciales default)
	SecretAccessKey string
	PathStyle       bool

	// PublicBaseURL fuerza la base de las URLs públicas (p.ej. un CDN).
	PublicBaseURL string
}

// Env vars:
//   BLOB_DRIVER=s3
//   BLOB_S3_BUCKET=<bucket> (required)
//   BLOB_S3_REGION=<region> (default us-east-1)
//   BLOB_S3_ENDPOINT=<url> (opcional, MinIO)
//   BLOB_S3_PATH_STYLE=true|false (default false)
//   BLOB_PUBLIC_BASE_URL=<url> (opcional, CDN)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY (opcional)

func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		region:        region,
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle:     cfg.PathStyle,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// OpenFromEnv construye el store S3 desde el environment del proceso.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("BLOB_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("BLOB_S3_BUCKET required for s3 driver")
	}
	return New(ctx, Config{
		Bucket:        bucket,
		Region:        os.Getenv("BLOB_S3_REGION"),
		Endpoint:      os.Getenv("BLOB_S3_ENDPOINT"),
		PathStyle:     strings.EqualFold(os.Getenv("BLOB_S3_PATH_STYLE"), "true"),
		PublicBaseURL: os.Getenv("BLOB_PUBLIC_BASE_URL"),
	})
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	input := &awss3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		return nil, "", err
	}
	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	return err
}

// PublicURL arma la URL pública del objeto. Con PublicBaseURL seteado
// (CDN) la usa directo; si no, deriva del endpoint o del host AWS.
func (s *Store) PublicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	if s.endpoint != "" {
		if s.pathStyle {
			return s.endpoint + "/" + s.bucket + "/" + key
		}
		return s.endpoint + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

var _ blob.Store = (*Store)(nil)
