package minio

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	IsEnabled       bool   `yaml:"is-enable"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type MinIO struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

type Option func(*MinIO)

func WithLogger(logger *zap.Logger) Option {
	return func(m *MinIO) {
		m.logger = logger
	}
}

var clients = make(map[string]*MinIO)

// NewClient 创建 MinIO 存储实例
// MinIO 自建服务必须走 path-style 寻址
func NewClient(conf *Config, opts ...Option) (*MinIO, error) {
	cacheKey := conf.AccessKeyID + "|" + conf.Endpoint + "|" + conf.BucketName
	if c := clients[cacheKey]; c != nil {
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	region := conf.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, errors.Wrap(err, "minio")
	}

	client := &MinIO{
		S3Client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}),
		Config: conf,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	clients[cacheKey] = client
	return client, nil
}
