package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── 报表查询结果行 ──

// RosterRow 点名表一行
type RosterRow struct {
	StudentName  string `gorm:"column:student_name"`
	StudentDept  string `gorm:"column:student_dept"`
	StudentGrade int    `gorm:"column:student_grade"`
	StudentClass string `gorm:"column:student_class"`
}

// ParticipationRow 一笔中选记录及判定及格线所需的学生系所
type ParticipationRow struct {
	Semester    string              `gorm:"column:semester"`
	CourseNo    string              `gorm:"column:course_no"`
	CourseName  string              `gorm:"column:course_name"`
	StudentDept string              `gorm:"column:student_dept"`
	CourseScore decimal.NullDecimal `gorm:"column:course_score"`
}

// CourseTeacherRow 课程与其授课教师
type CourseTeacherRow struct {
	Semester    string `gorm:"column:semester"`
	CourseNo    string `gorm:"column:course_no"`
	TeacherName string `gorm:"column:teacher_name"`
}

// FieldCountRow 某系在某课程领域的修课人次
type FieldCountRow struct {
	StudentDept     string `gorm:"column:student_dept"`
	CurriculumField string `gorm:"column:curriculum_field"`
	FieldPersons    int64  `gorm:"column:field_persons"`
}

// DeptCountRow 某系的总修课人次
type DeptCountRow struct {
	StudentDept string `gorm:"column:student_dept"`
	DeptPersons int64  `gorm:"column:dept_persons"`
}

// FeedbackRow 某课程某教师的教学评量汇总
type FeedbackRow struct {
	CourseName  string          `gorm:"column:course_name"`
	TeacherName string          `gorm:"column:teacher_name"`
	FeedbackSum int64           `gorm:"column:feedback_sum"`
	FeedbackAvg decimal.Decimal `gorm:"column:feedback_avg"`
}

// ReportRepository 固定报表查询接口（只读）
type ReportRepository interface {
	Roster(ctx context.Context, courseNo, selectResult string) ([]RosterRow, error)
	ListParticipations(ctx context.Context, selectResult string) ([]ParticipationRow, error)
	ListCourseTeachers(ctx context.Context) ([]CourseTeacherRow, error)
	FieldCounts(ctx context.Context, selectResult string) ([]FieldCountRow, error)
	DeptCounts(ctx context.Context, selectResult string) ([]DeptCountRow, error)
	FeedbackSummary(ctx context.Context) ([]FeedbackRow, error)
}

type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

const (
	joinEnrollCourse  = "enroll e ON e.semester = c.semester AND e.course_no = c.course_no"
	joinEnrollStudent = "student s ON s.student_id = e.student_id"
	joinTeachCourse   = "teach th ON th.semester = c.semester AND th.course_no = c.course_no"
	joinTeacher       = "teacher t ON t.teacher_id = th.teacher_id"
)

// scan 执行 squirrel 构建的查询并把结果扫描到 dest
func (r *reportRepo) scan(ctx context.Context, builder sq.SelectBuilder, dest interface{}) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
}

func (r *reportRepo) Roster(ctx context.Context, courseNo, selectResult string) ([]RosterRow, error) {
	var rows []RosterRow
	builder := sq.Select("s.student_name", "s.student_dept", "s.student_grade", "s.student_class").
		From("course c").
		Join(joinEnrollCourse).
		Join(joinEnrollStudent).
		Where(sq.Eq{"c.course_no": courseNo, "e.select_result": selectResult}).
		OrderBy("s.student_id ASC")
	err := r.scan(ctx, builder, &rows)
	return rows, err
}

func (r *reportRepo) ListParticipations(ctx context.Context, selectResult string) ([]ParticipationRow, error) {
	var rows []ParticipationRow
	builder := sq.Select("c.semester", "c.course_no", "c.course_name", "s.student_dept", "e.course_score").
		From("course c").
		Join(joinEnrollCourse).
		Join(joinEnrollStudent).
		Where(sq.Eq{"e.select_result": selectResult}).
		OrderBy("c.semester ASC", "c.course_no ASC", "s.student_id ASC")
	err := r.scan(ctx, builder, &rows)
	return rows, err
}

func (r *reportRepo) ListCourseTeachers(ctx context.Context) ([]CourseTeacherRow, error) {
	var rows []CourseTeacherRow
	builder := sq.Select("c.semester", "c.course_no", "t.teacher_name").
		From("course c").
		Join(joinTeachCourse).
		Join(joinTeacher).
		OrderBy("c.semester ASC", "c.course_no ASC", "t.teacher_id ASC")
	err := r.scan(ctx, builder, &rows)
	return rows, err
}

func (r *reportRepo) FieldCounts(ctx context.Context, selectResult string) ([]FieldCountRow, error) {
	var rows []FieldCountRow
	builder := sq.Select("s.student_dept", "cf.curriculum_field", "COUNT(*) AS field_persons").
		From("curriculum_field cf").
		Join("enroll e ON e.semester = cf.semester AND e.course_no = cf.course_no").
		Join(joinEnrollStudent).
		Where(sq.Eq{"e.select_result": selectResult}).
		GroupBy("s.student_dept", "cf.curriculum_field").
		OrderBy("s.student_dept ASC", "cf.curriculum_field ASC")
	err := r.scan(ctx, builder, &rows)
	return rows, err
}

func (r *reportRepo) DeptCounts(ctx context.Context, selectResult string) ([]DeptCountRow, error) {
	var rows []DeptCountRow
	builder := sq.Select("s.student_dept", "COUNT(*) AS dept_persons").
		From("enroll e").
		Join(joinEnrollStudent).
		Where(sq.Eq{"e.select_result": selectResult}).
		GroupBy("s.student_dept").
		OrderBy("s.student_dept ASC")
	err := r.scan(ctx, builder, &rows)
	return rows, err
}

func (r *reportRepo) FeedbackSummary(ctx context.Context) ([]FeedbackRow, error) {
	var rows []FeedbackRow
	builder := sq.Select(
		"c.course_name",
		"t.teacher_name",
		"SUM(e.feedback_rank) AS feedback_sum",
		"AVG(e.feedback_rank) AS feedback_avg",
	).
		From("course c").
		Join(joinEnrollCourse).
		Join(joinTeachCourse).
		Join(joinTeacher).
		Where(sq.NotEq{"e.feedback_rank": nil}).
		GroupBy("c.course_name", "t.teacher_name").
		OrderBy("c.course_name ASC", "t.teacher_name ASC")
	err := r.scan(ctx, builder, &rows)
	return rows, err
}
