package webdav

import (
	"github.com/studio-b12/gowebdav"
)

type Config struct {
	IsEnabled  bool   `yaml:"is-enable"`
	Endpoint   string `yaml:"endpoint"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	CustomPath string `yaml:"custom-path"`
}

type WebDAV struct {
	Client *gowebdav.Client
	Config *Config
}

// NewClient 创建 WebDAV 存储实例，目录按需创建
func NewClient(conf *Config) (*WebDAV, error) {
	client := gowebdav.NewClient(conf.Endpoint, conf.User, conf.Password)
	return &WebDAV{
		Client: client,
		Config: conf,
	}, nil
}
