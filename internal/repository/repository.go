package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Flat            FlatRepository
	Location        LocationRepository
	Course          CourseRepository
	CurriculumField CurriculumFieldRepository
	CourseTime      CourseTimeRepository
	Student         StudentRepository
	Teacher         TeacherRepository
	Teach           TeachRepository
	Enroll          EnrollRepository
	Integrity       IntegrityRepository
	Report          ReportRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:              db,
		Flat:            NewFlatRepo(db),
		Location:        NewLocationRepo(db),
		Course:          NewCourseRepo(db),
		CurriculumField: NewCurriculumFieldRepo(db),
		CourseTime:      NewCourseTimeRepo(db),
		Student:         NewStudentRepo(db),
		Teacher:         NewTeacherRepo(db),
		Teach:           NewTeachRepo(db),
		Enroll:          NewEnrollRepo(db),
		Integrity:       NewIntegrityRepo(db),
		Report:          NewReportRepo(db),
	}
}

// BeginTx 开启事务
//
// 单元测试中以字面量组装、未注入 db 的聚合返回 (nil, nil)，调用方需判空。
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 聚合；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
