package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Staler2019/NCU-SQL-Class/internal/dto"
	"github.com/Staler2019/NCU-SQL-Class/internal/model"
	"github.com/Staler2019/NCU-SQL-Class/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound  = errors.New("课程不存在")
	ErrLocationInvalid = errors.New("教室与大楼不能为空")
)

// CourseService 课程业务接口
type CourseService interface {
	// Relocate 教室异动：新增一个地点并把该课号的所有课程指向它
	//
	// 旧地点保留不删，允许出现无人引用的地点行。
	Relocate(ctx context.Context, courseNo, room, building string) (*dto.RelocateResult, error)
	GetLocation(ctx context.Context, key model.CourseKey) (*model.Location, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Relocate ──────────────────────

func (s *courseService) Relocate(ctx context.Context, courseNo, room, building string) (*dto.RelocateResult, error) {
	if room == "" || building == "" {
		return nil, ErrLocationInvalid
	}

	courses, err := s.repo.Course.ListByCourseNo(ctx, courseNo)
	if err != nil {
		s.logger.Error("查询课程失败", zap.String("course_no", courseNo), zap.Error(err))
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrCourseNotFound
	}

	// 新增地点 + 改指向必须原子完成
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	loc := &model.Location{Room: room, Building: building}
	if err := txRepo.Location.Create(ctx, loc); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("新增地点失败", zap.String("room", room), zap.Error(err))
		return nil, err
	}

	affected, err := txRepo.Course.UpdateLocation(ctx, courseNo, loc.LocationID)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("更新课程地点失败", zap.String("course_no", courseNo), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("课程地点已异动",
		zap.String("course_no", courseNo),
		zap.Int64("location_id", loc.LocationID),
		zap.String("room", room),
		zap.String("building", building),
		zap.Int64("courses_updated", affected),
	)

	return &dto.RelocateResult{
		CourseNo:       courseNo,
		LocationID:     loc.LocationID,
		Room:           room,
		Building:       building,
		CoursesUpdated: affected,
	}, nil
}

// ────────────────────── GetLocation ──────────────────────

func (s *courseService) GetLocation(ctx context.Context, key model.CourseKey) (*model.Location, error) {
	course, err := s.repo.Course.GetByKey(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("course_no", key.CourseNo), zap.Error(err))
		return nil, err
	}

	loc, err := s.repo.Location.GetByID(ctx, course.LocationID)
	if err != nil {
		s.logger.Error("查询地点失败", zap.Int64("location_id", course.LocationID), zap.Error(err))
		return nil, err
	}
	return loc, nil
}
