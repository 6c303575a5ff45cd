// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/IxSyZ/my-life-diary/internal/model"
	"github.com/IxSyZ/my-life-diary/pkg/fileurl"
	"github.com/IxSyZ/my-life-diary/pkg/util"
	"github.com/IxSyZ/my-life-diary/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// DatabaseConfig 数据库初始化配置
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	Replicas        []string
	RunMode         string
}

// Dao 数据访问入口，持有共享数据库连接与写队列
type Dao struct {
	db          *gorm.DB
	ctx         context.Context
	config      *DatabaseConfig
	logger      *zap.Logger
	writeQueue  *writequeue.Manager
	migrateOnce sync.Map // 模型键 -> *sync.Once
}

// Option 配置 Dao 的可选项
type Option func(*Dao)

// WithConfig 注入数据库配置
func WithConfig(c *DatabaseConfig) Option {
	return func(d *Dao) {
		d.config = c
	}
}

// WithLogger 注入日志器
func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) {
		d.logger = lg
	}
}

// WithWriteQueueManager 注入写队列管理器
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) {
		d.writeQueue = m
	}
}

// New 创建 Dao 实例
func New(db *gorm.DB, ctx context.Context, opts ...Option) *Dao {
	d := &Dao{
		db:  db,
		ctx: ctx,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB 返回底层 gorm 连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// Logger 返回日志器，未注入时返回空实现
func (d *Dao) Logger() *zap.Logger {
	if d.logger == nil {
		return zap.NewNop()
	}
	return d.logger
}

// Use 返回完成建表迁移的数据库会话。每个模型键只迁移一次。
func (d *Dao) Use(modelKeys ...string) *gorm.DB {
	for _, key := range modelKeys {
		d.migrate(key)
	}
	return d.db
}

func (d *Dao) migrate(key string) {
	if d.config != nil && !d.config.AutoMigrate {
		return
	}
	onceVal, _ := d.migrateOnce.LoadOrStore(key, &sync.Once{})
	onceVal.(*sync.Once).Do(func() {
		if err := model.AutoMigrate(d.db, key); err != nil {
			d.Logger().Error("auto migrate failed",
				zap.String("model", key),
				zap.Error(err),
			)
		}
	})
}

// ExecuteWrite executes fn through the write queue so that writes for the
// same user are serialized. Falls back to direct execution when no queue
// manager was injected (tests).
// ExecuteWrite 通过写队列串行化同一用户的写操作
func (d *Dao) ExecuteWrite(ctx context.Context, uid int64, fn func(db *gorm.DB) error) error {
	if d.writeQueue == nil {
		return fn(d.db)
	}
	return d.writeQueue.Execute(ctx, uid, func() error {
		return fn(d.db)
	})
}

// NewDBEngineWithConfig 按配置创建 GORM 连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector := openDialector(c)
	if dialector == nil {
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)

	if v, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && v > 0 {
		sqlDB.SetConnMaxLifetime(v)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if v, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && v > 0 {
		sqlDB.SetConnMaxIdleTime(v)
	} else {
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	// 读副本，sqlite 副本项为文件路径，其余为主机地址
	if len(c.Replicas) > 0 {
		var replicas []gorm.Dialector
		for _, target := range c.Replicas {
			rc := c
			if c.Type == "sqlite" {
				rc.Path = target
			} else {
				rc.Host = target
			}
			if rd := openDialector(rc); rd != nil {
				replicas = append(replicas, rd)
			}
		}
		if len(replicas) > 0 {
			err = db.Use(dbresolver.Register(dbresolver.Config{
				Replicas: replicas,
				Policy:   dbresolver.RandomPolicy{},
			}))
			if err != nil {
				return nil, err
			}
		}
	}

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil {
		if lg != nil {
			lg.Warn("register tracing plugin failed", zap.Error(err))
		}
	}

	return db, nil
}

func openDialector(c DatabaseConfig) gorm.Dialector {
	switch c.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	case "postgres":
		host, port := c.Host, "5432"
		if i := strings.LastIndex(c.Host, ":"); i > 0 {
			host, port = c.Host[:i], c.Host[i+1:]
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Local",
			host,
			port,
			c.UserName,
			c.Password,
			c.Name,
		))
	case "sqlite":
		if !fileurl.IsExist(c.Path) {
			_ = fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
