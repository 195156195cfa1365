package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Staler2019/NCU-SQL-Class/config"
	pkgerrors "github.com/Staler2019/NCU-SQL-Class/pkg/errors"
)

const flatScript = `
CREATE TABLE course_data (
    semester varchar(4), course_no varchar(10), course_name varchar(255),
    course_room varchar(20), course_building varchar(20), student_name varchar(20)
);
INSERT INTO course_data VALUES ('1112', 'A0001', '微積分', 'K205', '工程一館', '王小明');
INSERT INTO course_data VALUES ('1112', 'A0002', '計算機概論', 'E6-A203', '工程五館', '陳大文');
`

func newTestConfig(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	return &config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "db.sqlite"),
		ForeignKeys: true,
	}
}

func TestNewDB_SQLiteAndMigrations(t *testing.T) {
	cfg := newTestConfig(t)
	logger := zap.NewNop()

	db, err := NewDB(cfg, "error", logger)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, RunMigrations(sqlDB, cfg.Driver, logger))

	for _, table := range []string{"location", "course", "curriculum_field", "course_time", "student", "teacher", "teach", "enroll"} {
		require.True(t, db.Migrator().HasTable(table), "缺少表 %s", table)
	}

	// 重复执行不应报错
	require.NoError(t, RunMigrations(sqlDB, cfg.Driver, logger))
}

func TestLoadSource(t *testing.T) {
	cfg := newTestConfig(t)
	logger := zap.NewNop()
	db, err := NewDB(cfg, "error", logger)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "course_data.sql")
	require.NoError(t, os.WriteFile(path, []byte(flatScript), 0o600))

	require.NoError(t, LoadSource(context.Background(), db, path, logger))

	var count int64
	require.NoError(t, db.Table(FlatTable).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestLoadSource_Missing(t *testing.T) {
	cfg := newTestConfig(t)
	db, err := NewDB(cfg, "error", zap.NewNop())
	require.NoError(t, err)

	err = LoadSource(context.Background(), db, filepath.Join(t.TempDir(), "nope.sql"), zap.NewNop())
	require.True(t, errors.Is(err, pkgerrors.ErrSourceNotFound), "实际: %v", err)
}

func TestLoadSource_ScriptWithoutFlatTable(t *testing.T) {
	cfg := newTestConfig(t)
	db, err := NewDB(cfg, "error", zap.NewNop())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "other.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE other (id INTEGER);"), 0o600))

	err = LoadSource(context.Background(), db, path, zap.NewNop())
	require.ErrorIs(t, err, pkgerrors.ErrSourceNotFound)
}

func TestRemoveStoreFile(t *testing.T) {
	cfg := newTestConfig(t)
	logger := zap.NewNop()

	// 文件不存在时不报错
	require.NoError(t, RemoveStoreFile(cfg, logger))

	require.NoError(t, os.WriteFile(cfg.Path, []byte("stale"), 0o600))
	require.NoError(t, RemoveStoreFile(cfg, logger))
	_, err := os.Stat(cfg.Path)
	require.True(t, os.IsNotExist(err))
}
