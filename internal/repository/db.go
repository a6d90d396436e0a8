package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/moovie-discover/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("key not found")

// KeyValueStore 持久化键值存储
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// InitDB 初始化数据库连接并迁移表结构
func InitDB(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}
	return db, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewStore 根据配置创建键值存储，返回的 io.Closer 用于退出时释放资源
func NewStore(cfg *config.Config) (KeyValueStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryStore(), closerFunc(func() error { return nil }), nil
	case "badger":
		s, err := OpenBadgerStore(cfg.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "postgres", "sqlite":
		var dialector gorm.Dialector
		if cfg.StoreDriver == "postgres" {
			dialector = postgres.Open(cfg.DatabaseURL)
		} else {
			dialector = sqlite.Open(cfg.SQLitePath)
		}
		db, err := InitDB(dialector)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, _ := db.DB()
		return NewKVRepository(db), sqlDB, nil
	default:
		return nil, nil, fmt.Errorf("未知的存储驱动: %s", cfg.StoreDriver)
	}
}
