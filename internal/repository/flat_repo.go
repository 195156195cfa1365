package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Staler2019/NCU-SQL-Class/internal/model"
)

// FlatRepository 扁平来源表数据访问接口
type FlatRepository interface {
	List(ctx context.Context) ([]model.CourseData, error)
	Count(ctx context.Context) (int64, error)
	// Drop 删除扁平表；正规化完成后来源数据不再保留
	Drop(ctx context.Context) error
}

type flatRepo struct {
	db *gorm.DB
}

// NewFlatRepo 创建 FlatRepository 实例
func NewFlatRepo(db *gorm.DB) FlatRepository {
	return &flatRepo{db: db}
}

// flatSelect 把可能为 NULL 的文本/整数列折叠为零值，
// course_score 与 feedback_rank 保留 NULL 语义。
const flatSelect = `COALESCE(semester, '') AS semester,
	COALESCE(course_no, '') AS course_no,
	COALESCE(course_name, '') AS course_name,
	COALESCE(course_type, '') AS course_type,
	COALESCE(course_credit, 0) AS course_credit,
	COALESCE(course_limit, 0) AS course_limit,
	COALESCE(course_status, '') AS course_status,
	COALESCE(course_room, '') AS course_room,
	COALESCE(course_building, '') AS course_building,
	COALESCE(curriculum_field, '') AS curriculum_field,
	COALESCE(course_time, '') AS course_time,
	COALESCE(student_name, '') AS student_name,
	COALESCE(student_dept, '') AS student_dept,
	COALESCE(student_grade, 0) AS student_grade,
	COALESCE(student_status, '') AS student_status,
	COALESCE(student_class, '') AS student_class,
	COALESCE(teacher_name, '') AS teacher_name,
	COALESCE(select_result, '') AS select_result,
	course_score,
	feedback_rank`

func (r *flatRepo) List(ctx context.Context) ([]model.CourseData, error) {
	var rows []model.CourseData
	err := r.db.WithContext(ctx).
		Model(&model.CourseData{}).
		Select(flatSelect).
		Find(&rows).Error
	return rows, err
}

func (r *flatRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CourseData{}).Count(&count).Error
	return count, err
}

func (r *flatRepo) Drop(ctx context.Context) error {
	table := model.CourseData{}.TableName()
	return r.db.WithContext(ctx).Exec(fmt.Sprintf("DROP TABLE %s", table)).Error
}
