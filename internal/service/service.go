package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Staler2019/NCU-SQL-Class/config"
	"github.com/Staler2019/NCU-SQL-Class/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Normalize NormalizeService
	Course    CourseService
	Report    ReportService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		Normalize: NewNormalizeService(repo, logger),
		Course:    NewCourseService(repo, logger),
		Report:    NewReportService(&cfg.Report, repo, logger),
		Export:    NewExportService(logger),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
