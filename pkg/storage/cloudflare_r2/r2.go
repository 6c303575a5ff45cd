package cloudflare_r2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	IsEnabled       bool   `yaml:"is-enable"`
	AccountID       string `yaml:"account-id"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type R2 struct {
	S3Client *s3.Client
	Config   *Config
	logger   *zap.Logger
}

type Option func(*R2)

func WithLogger(logger *zap.Logger) Option {
	return func(r *R2) {
		r.logger = logger
	}
}

var clients = make(map[string]*R2)

// NewClient 创建 Cloudflare R2 存储实例
// R2 走 S3 兼容接口，endpoint 由账户 ID 拼出，region 固定为 auto
func NewClient(conf *Config, opts ...Option) (*R2, error) {
	cacheKey := conf.AccessKeyID + "|" + conf.AccountID + "|" + conf.BucketName
	if c := clients[cacheKey]; c != nil {
		for _, opt := range opts {
			opt(c)
		}
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.AccessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cloudflare_r2")
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", conf.AccountID)
	client := &R2{
		S3Client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
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
