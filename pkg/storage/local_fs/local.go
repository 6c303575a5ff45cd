package local_fs

import (
	"github.com/IxSyZ/my-life-diary/pkg/fileurl"
)

type Config struct {
	IsEnabled  bool   `yaml:"is-enable" default:"true"`
	SavePath   string `yaml:"save-path" default:"storage/backups"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	return &LocalFS{Config: conf}, nil
}

func (p *LocalFS) getSavePath() string {
	return fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/")
}
