package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Staler2019/NCU-SQL-Class/config"
	"github.com/Staler2019/NCU-SQL-Class/internal/dto"
	"github.com/Staler2019/NCU-SQL-Class/internal/render"
	"github.com/Staler2019/NCU-SQL-Class/internal/repository"
	"github.com/Staler2019/NCU-SQL-Class/internal/service"
	"github.com/Staler2019/NCU-SQL-Class/pkg/database"
	applogger "github.com/Staler2019/NCU-SQL-Class/pkg/logger"
)

// app 一次命令执行所需的全部依赖
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	svc    *service.Service
	now    func() time.Time
}

func newApp(opts *options) (*app, error) {
	// 1. 加载配置
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	return &app{cfg: cfg, logger: logger, now: time.Now}, nil
}

// apply 命令行参数覆盖配置
func (o *options) apply(cfg *config.Config) {
	if o.sourcePath != "" {
		cfg.Source.Path = o.sourcePath
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.dumpFormat != "" {
		cfg.Report.DumpFormat = o.dumpFormat
	}
	if o.skipRelocate {
		cfg.Relocate.Enabled = false
	}
}

// connect 连接数据库并完成 Repository → Service 的依赖注入
func (a *app) connect() error {
	db, err := database.NewDB(&a.cfg.Database, a.cfg.Log.Level, a.logger)
	if err != nil {
		return err
	}
	a.db = db

	repo := repository.NewRepository(db)
	a.svc = service.NewService(a.cfg, repo, a.logger)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.logger.Sync()
}

// ═══════════════════════════════════════════════════════════
// run: 从空库重建并输出报表
// ═══════════════════════════════════════════════════════════

func (a *app) run(ctx context.Context, out io.Writer) error {
	// 1. 清理上一次运行留下的数据
	if err := database.RemoveStoreFile(&a.cfg.Database, a.logger); err != nil {
		return err
	}
	if err := a.connect(); err != nil {
		return err
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.DropSchema(sqlDB, a.cfg.Database.Driver, a.logger); err != nil {
		return err
	}

	// 2. 载入扁平来源
	if err := database.LoadSource(ctx, a.db, a.cfg.Source.Path, a.logger); err != nil {
		return err
	}

	// 3. 建立正规化表结构
	if err := database.RunMigrations(sqlDB, a.cfg.Database.Driver, a.logger); err != nil {
		return err
	}

	// 4. 正规化
	if _, err := a.svc.Normalize.Normalize(ctx); err != nil {
		return err
	}

	// 5. 教室异动
	if a.cfg.Relocate.Enabled {
		rc := a.cfg.Relocate
		if _, err := a.svc.Course.Relocate(ctx, rc.CourseNo, rc.Room, rc.Building); err != nil {
			return fmt.Errorf("教室异动失败: %w", err)
		}
	}

	// 6. 报表
	return a.report(ctx, out)
}

// ═══════════════════════════════════════════════════════════
// report: 3.2 ~ 3.4 输出到 out，3.5 转储到文件
// ═══════════════════════════════════════════════════════════

func (a *app) report(ctx context.Context, out io.Writer) error {
	roster, err := a.svc.Report.Roster(ctx, a.cfg.Report.RosterCourse)
	if err != nil {
		return err
	}
	failRate, err := a.svc.Report.FailRate(ctx)
	if err != nil {
		return err
	}
	distribution, err := a.svc.Report.FieldDistribution(ctx)
	if err != nil {
		return err
	}
	if err := render.NewPrinter(out).PrintAll([]*dto.Table{roster, failRate, distribution}); err != nil {
		return fmt.Errorf("输出报表失败: %w", err)
	}

	feedback, err := a.svc.Report.FeedbackSummary(ctx)
	if err != nil {
		return err
	}
	path, err := a.dump(ctx, []*dto.Table{feedback})
	if err != nil {
		return err
	}
	a.logger.Info("教学评量已转储", zap.String("path", path), zap.Int("rows", len(feedback.Rows)))
	return nil
}

func (a *app) dump(ctx context.Context, tables []*dto.Table) (string, error) {
	dir := a.cfg.Report.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	at := a.now()
	if a.cfg.Report.DumpFormat == config.DumpFormatExcel {
		buf, name, err := a.svc.Export.ExportTables(ctx, tables, at)
		if err != nil {
			return "", err
		}
		return render.WriteFile(dir, name, buf)
	}
	return render.DumpText(dir, tables, at)
}
