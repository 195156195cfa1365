package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Staler2019/NCU-SQL-Class/internal/model"
)

// EnrollRepository 选课数据访问接口
type EnrollRepository interface {
	BatchCreate(ctx context.Context, enrolls []model.Enroll) error
	ListByCourse(ctx context.Context, key model.CourseKey) ([]model.Enroll, error)
	Count(ctx context.Context) (int64, error)
}

type enrollRepo struct {
	db *gorm.DB
}

// NewEnrollRepo 创建 EnrollRepository 实例
func NewEnrollRepo(db *gorm.DB) EnrollRepository {
	return &enrollRepo{db: db}
}

// enrollBatchSize 单条 INSERT 的行数上限，避开 SQLite 的绑定变量数限制
const enrollBatchSize = 100

func (r *enrollRepo) BatchCreate(ctx context.Context, enrolls []model.Enroll) error {
	if len(enrolls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&enrolls, enrollBatchSize).Error
}

func (r *enrollRepo) ListByCourse(ctx context.Context, key model.CourseKey) ([]model.Enroll, error) {
	var enrolls []model.Enroll
	err := r.db.WithContext(ctx).
		Where("semester = ? AND course_no = ?", key.Semester, key.CourseNo).
		Order("student_id ASC").
		Find(&enrolls).Error
	return enrolls, err
}

func (r *enrollRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enroll{}).Count(&count).Error
	return count, err
}
