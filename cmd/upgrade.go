package cmd

import (
	"fmt"
	"os"

	internalApp "github.com/IxSyZ/my-life-diary/internal/app"
	"github.com/IxSyZ/my-life-diary/internal/upgrade"
	"github.com/IxSyZ/my-life-diary/pkg/logger"

	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Apply pending database data migrations",
	Long: `Apply pending database data migrations.

This command checks the recorded migration versions and applies everything
that is still missing. It is safe to run multiple times - already applied
migrations are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		if len(configPath) <= 0 {
			configPath = "config/config.yaml"
		}

		appConfig, configRealpath, err := internalApp.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Failed to load config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Loading config from: %s\n", configRealpath)

		// 初始化日志
		lg, err := logger.NewLogger(logger.Config{
			Level:      appConfig.Log.Level,
			File:       appConfig.Log.File,
			Production: appConfig.Log.Production,
		})
		if err != nil {
			fmt.Printf("Failed to init logger: %v\n", err)
			os.Exit(1)
		}

		// 初始化数据库（使用注入的配置）
		db, err := initDatabaseWithConfig(appConfig, lg)
		if err != nil {
			fmt.Printf("Failed to init database: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Starting database migration...")

		if err := upgrade.Execute(db, lg, internalApp.Version); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Database migration completed successfully!")
	},
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
	upgradeCmd.Flags().StringP("config", "c", "", "config file path")
}
