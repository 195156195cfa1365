package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Staler2019/NCU-SQL-Class/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByKey(ctx context.Context, key model.CourseKey) (*model.Course, error)
	ListByCourseNo(ctx context.Context, courseNo string) ([]model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	// UpdateLocation 将所有该课号的课程指向新地点，返回受影响行数
	UpdateLocation(ctx context.Context, courseNo string, locationID int64) (int64, error)
}

// CurriculumFieldRepository 课程领域数据访问接口
type CurriculumFieldRepository interface {
	BatchCreate(ctx context.Context, fields []model.CurriculumField) error
	ListByCourse(ctx context.Context, key model.CourseKey) ([]model.CurriculumField, error)
	Count(ctx context.Context) (int64, error)
}

// CourseTimeRepository 上课时段数据访问接口
type CourseTimeRepository interface {
	BatchCreate(ctx context.Context, times []model.CourseTime) error
	ListByCourse(ctx context.Context, key model.CourseKey) ([]model.CourseTime, error)
	Count(ctx context.Context) (int64, error)
}

// ── Course Repository 实现 ──

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByKey(ctx context.Context, key model.CourseKey) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("semester = ? AND course_no = ?", key.Semester, key.CourseNo).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) ListByCourseNo(ctx context.Context, courseNo string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("course_no = ?", courseNo).
		Order("semester ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Order("semester ASC, course_no ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) UpdateLocation(ctx context.Context, courseNo string, locationID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_no = ?", courseNo).
		Update("course_location", locationID)
	return result.RowsAffected, result.Error
}

// ── CurriculumField Repository 实现 ──

type curriculumFieldRepo struct {
	db *gorm.DB
}

// NewCurriculumFieldRepo 创建 CurriculumFieldRepository 实例
func NewCurriculumFieldRepo(db *gorm.DB) CurriculumFieldRepository {
	return &curriculumFieldRepo{db: db}
}

func (r *curriculumFieldRepo) BatchCreate(ctx context.Context, fields []model.CurriculumField) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&fields).Error
}

func (r *curriculumFieldRepo) ListByCourse(ctx context.Context, key model.CourseKey) ([]model.CurriculumField, error) {
	var fields []model.CurriculumField
	err := r.db.WithContext(ctx).
		Where("semester = ? AND course_no = ?", key.Semester, key.CourseNo).
		Order("curriculum_field ASC").
		Find(&fields).Error
	return fields, err
}

func (r *curriculumFieldRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CurriculumField{}).Count(&count).Error
	return count, err
}

// ── CourseTime Repository 实现 ──

type courseTimeRepo struct {
	db *gorm.DB
}

// NewCourseTimeRepo 创建 CourseTimeRepository 实例
func NewCourseTimeRepo(db *gorm.DB) CourseTimeRepository {
	return &courseTimeRepo{db: db}
}

func (r *courseTimeRepo) BatchCreate(ctx context.Context, times []model.CourseTime) error {
	if len(times) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&times).Error
}

func (r *courseTimeRepo) ListByCourse(ctx context.Context, key model.CourseKey) ([]model.CourseTime, error) {
	var times []model.CourseTime
	err := r.db.WithContext(ctx).
		Where("semester = ? AND course_no = ?", key.Semester, key.CourseNo).
		Order("time_slot ASC").
		Find(&times).Error
	return times, err
}

func (r *courseTimeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CourseTime{}).Count(&count).Error
	return count, err
}
