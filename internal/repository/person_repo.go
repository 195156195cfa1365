package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Staler2019/NCU-SQL-Class/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	// Create 插入学生，成功后 student.StudentID 为新生成的代理键
	Create(ctx context.Context, student *model.Student) error
	ListByName(ctx context.Context, name string) ([]model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
}

// TeacherRepository 教师数据访问接口
type TeacherRepository interface {
	// Create 插入教师，成功后 teacher.TeacherID 为新生成的代理键
	Create(ctx context.Context, teacher *model.Teacher) error
	List(ctx context.Context) ([]model.Teacher, error)
}

// TeachRepository 授课关联数据访问接口
type TeachRepository interface {
	Create(ctx context.Context, teach *model.Teach) error
	List(ctx context.Context) ([]model.Teach, error)
}

// ── Student Repository 实现 ──

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) ListByName(ctx context.Context, name string) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("student_name = ?", name).
		Order("student_id ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).Order("student_id ASC").Find(&students).Error
	return students, err
}

// ── Teacher Repository 实现 ──

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepo) List(ctx context.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	err := r.db.WithContext(ctx).Order("teacher_id ASC").Find(&teachers).Error
	return teachers, err
}

// ── Teach Repository 实现 ──

type teachRepo struct {
	db *gorm.DB
}

// NewTeachRepo 创建 TeachRepository 实例
func NewTeachRepo(db *gorm.DB) TeachRepository {
	return &teachRepo{db: db}
}

func (r *teachRepo) Create(ctx context.Context, teach *model.Teach) error {
	return r.db.WithContext(ctx).Create(teach).Error
}

func (r *teachRepo) List(ctx context.Context) ([]model.Teach, error) {
	var teaches []model.Teach
	err := r.db.WithContext(ctx).
		Order("semester ASC, course_no ASC, teacher_id ASC").
		Find(&teaches).Error
	return teaches, err
}
