package task

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/app"
	pkgapp "github.com/IxSyZ/my-life-diary/pkg/app"
)

// ServiceVersionURL shields.io 上的最新 release 版本
const ServiceVersionURL = "https://img.shields.io/github/v/release/IxSyZ/my-life-diary.json"

type ShieldsJSON struct {
	Message string `json:"message"`
}

// CheckVersionTask 周期拉取最新发布版本并写入应用容器
type CheckVersionTask struct {
	app *app.App
}

func init() {
	Register(func(appContainer *app.App) (Task, error) {
		return &CheckVersionTask{
			app: appContainer,
		}, nil
	})
}

func (t *CheckVersionTask) Name() string {
	return "check_version"
}

func (t *CheckVersionTask) Run(ctx context.Context) error {
	latest, err := t.fetchVersion(ctx, ServiceVersionURL)
	if err != nil {
		return err
	}

	// 新旧比较在 SetCheckVersionInfo 内完成
	t.app.SetCheckVersionInfo(pkgapp.CheckVersionInfo{
		VersionNewName: latest,
	})

	return nil
}

func (t *CheckVersionTask) fetchVersion(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var sj ShieldsJSON
	if err := json.Unmarshal(body, &sj); err != nil {
		return "", err
	}

	return sj.Message, nil
}

func (t *CheckVersionTask) LoopInterval() time.Duration {
	return 30 * time.Minute
}

func (t *CheckVersionTask) IsStartupRun() bool {
	return true
}
