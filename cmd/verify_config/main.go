package main

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/IxSyZ/my-life-diary/global"
	"github.com/IxSyZ/my-life-diary/internal/app"
)

// 小工具：加载配置并检查存储后端配置是否符合预期
func main() {
	configPath := "config/config.yaml"
	absPath, _ := filepath.Abs(configPath)
	fmt.Printf("Loading config from: %s\n", absPath)

	cfg, _, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("Storage Configuration Loaded:")
	global.Dump(cfg.Storage)

	fmt.Printf("LocalFS Enabled: %v\n", cfg.Storage.LocalFS.IsEnabled)
	fmt.Printf("AliyunOSS Enabled: %v\n", cfg.Storage.AliyunOSS.IsEnabled)
	fmt.Printf("AwsS3 Enabled: %v\n", cfg.Storage.AwsS3.IsEnabled)
	fmt.Printf("CloudflareR2 Enabled: %v\n", cfg.Storage.CloudflareR2.IsEnabled)
	fmt.Printf("MinIO Enabled: %v\n", cfg.Storage.MinIO.IsEnabled)
	fmt.Printf("WebDAV Enabled: %v\n", cfg.Storage.WebDAV.IsEnabled)

	if !cfg.Storage.LocalFS.IsEnabled {
		log.Fatal("LocalFS should be enabled")
	}
	if cfg.Storage.LocalFS.SavePath == "" {
		log.Fatal("LocalFS SavePath should not be empty")
	}
}
