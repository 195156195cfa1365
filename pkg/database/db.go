package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Staler2019/NCU-SQL-Class/config"
	applogger "github.com/Staler2019/NCU-SQL-Class/pkg/logger"
)

// NewDB 按配置打开正规化结果存储
func NewDB(cfg *config.DatabaseConfig, logLevel string, logger *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(applogger.GormLogLevel(logLevel)),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	default:
		dialector = sqlite.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// SQLite 单连接：保证 PRAGMA 与事务作用于同一连接。
	// PostgreSQL 的迁移驱动会独占一条连接，不能限制为 1。
	if cfg.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	if cfg.Driver == config.DriverPostgres {
		logger.Info("数据库连接成功",
			zap.String("driver", cfg.Driver),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("dbname", cfg.Name),
		)
	} else {
		logger.Info("数据库连接成功",
			zap.String("driver", cfg.Driver),
			zap.String("path", cfg.Path),
			zap.Bool("foreign_keys", cfg.ForeignKeys),
		)
	}

	return db, nil
}

// RemoveStoreFile 删除上一次运行留下的 SQLite 文件
//
// 正规化不可增量执行，每次运行都必须从空库重建。PostgreSQL 见 DropSchema。
func RemoveStoreFile(cfg *config.DatabaseConfig, logger *zap.Logger) error {
	if cfg.Driver != config.DriverSQLite {
		return nil
	}
	if err := os.Remove(cfg.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("删除旧数据库文件失败: %w", err)
	}
	logger.Info("已删除旧数据库文件", zap.String("path", cfg.Path))
	return nil
}
