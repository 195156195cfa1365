package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/Staler2019/NCU-SQL-Class/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// newMigrator 按驱动选择对应方言的迁移目录
func newMigrator(db *sql.DB, driver string) (*migrate.Migrate, error) {
	var (
		dir     string
		dbDrv   migratedb.Driver
		drvName string
		err     error
	)

	switch driver {
	case config.DriverPostgres:
		dir, drvName = "migrations/postgres", "postgres"
		dbDrv, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		dir, drvName = "migrations/sqlite", "sqlite3"
		dbDrv, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("加载迁移文件失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, drvName, dbDrv)
	if err != nil {
		return nil, fmt.Errorf("初始化迁移实例失败: %w", err)
	}
	return m, nil
}

// RunMigrations 建立正规化后的表结构
func RunMigrations(db *sql.DB, driver string, logger *zap.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("数据库迁移处于 dirty 状态", zap.Uint("version", version))
	} else {
		logger.Info("数据库迁移完成", zap.Uint("version", version))
	}

	return nil
}

// DropSchema 清空 PostgreSQL 中上一次运行的全部表（含 schema_migrations）
//
// SQLite 直接删除文件即可，见 RemoveStoreFile。
func DropSchema(db *sql.DB, driver string, logger *zap.Logger) error {
	if driver != config.DriverPostgres {
		return nil
	}

	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}
	if err := m.Drop(); err != nil {
		return fmt.Errorf("清空旧表失败: %w", err)
	}

	logger.Info("已清空旧表")
	return nil
}
