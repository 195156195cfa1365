package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "github.com/Staler2019/NCU-SQL-Class/pkg/errors"
)

// FlatTable 来源脚本建立的扁平表名
const FlatTable = "course_data"

// LoadSource 执行来源 SQL 脚本，建立并填充扁平表 course_data
//
// 脚本被视为外部协作者：这里只要求执行后存在带约定列名的 course_data。
func LoadSource(ctx context.Context, db *gorm.DB, path string, logger *zap.Logger) error {
	script, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", pkgerrors.ErrSourceNotFound, path)
		}
		return fmt.Errorf("读取来源脚本失败: %w", err)
	}

	if err := ExecScript(ctx, db, string(script)); err != nil {
		return err
	}

	if !db.Migrator().HasTable(FlatTable) {
		return fmt.Errorf("%w: 执行 %s 后不存在 %s 表", pkgerrors.ErrSourceNotFound, path, FlatTable)
	}

	logger.Info("来源数据载入完成", zap.String("path", path), zap.Int("bytes", len(script)))
	return nil
}

// ExecScript 执行多语句 SQL 脚本
func ExecScript(ctx context.Context, db *gorm.DB, script string) error {
	if err := db.WithContext(ctx).Exec(script).Error; err != nil {
		return fmt.Errorf("执行来源脚本失败: %w", err)
	}
	return nil
}
