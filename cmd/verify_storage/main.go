package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/dao"
	"github.com/IxSyZ/my-life-diary/internal/dto"
	"github.com/IxSyZ/my-life-diary/internal/service"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// 小工具：验证存储目标服务对启用/停用后端的校验逻辑
func main() {
	configPath := "config/config.yaml"
	absPath, _ := filepath.Abs(configPath)
	fmt.Printf("Loading config from: %s\n", absPath)

	cfg, _, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Mock DB
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	d := dao.New(db, context.Background())
	repo := dao.NewStorageRepository(d)

	svc := service.NewStorageService(repo, &cfg.Storage)

	fmt.Printf("Enabled Types: %v\n", svc.GetEnabledTypes())

	// 启用的类型应当通过类型校验
	if cfg.Storage.LocalFS.IsEnabled {
		fmt.Println("Testing CreateOrUpdate with enabled type (local)...")
		_, err = svc.CreateOrUpdate(context.Background(), 1, 0, &dto.StorageDTO{Type: "local"})
		fmt.Printf("CreateOrUpdate (local) result: %v\n", err)
	} else {
		fmt.Println("LocalFS is disabled in config, skipping positive test.")
	}

	// 停用的类型必须被拒绝
	fmt.Println("Testing CreateOrUpdate with disabled type (oss)...")
	cfg.Storage.AliyunOSS.IsEnabled = false
	_, err = svc.CreateOrUpdate(context.Background(), 1, 0, &dto.StorageDTO{Type: "oss"})
	if err == nil {
		log.Fatal("Expected error for disabled type, got nil")
	}
	fmt.Printf("CreateOrUpdate (oss-disabled) result: %v\n", err)
}
