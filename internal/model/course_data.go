package model

import "github.com/shopspring/decimal"

// CourseData 扁平来源表，对应 course_data（一行一笔选课记录）
//
// 由外部 SQL 脚本建立，正规化完成后即被删除。
// curriculum_field / course_time / teacher_name 为逗号分隔的多值字段。
type CourseData struct {
	Semester        string              `gorm:"column:semester"         validate:"required"`
	CourseNo        string              `gorm:"column:course_no"        validate:"required"`
	CourseName      string              `gorm:"column:course_name"`
	CourseType      string              `gorm:"column:course_type"`
	CourseCredit    int                 `gorm:"column:course_credit"`
	CourseLimit     int                 `gorm:"column:course_limit"`
	CourseStatus    string              `gorm:"column:course_status"`
	CourseRoom      string              `gorm:"column:course_room"      validate:"required"`
	CourseBuilding  string              `gorm:"column:course_building"  validate:"required"`
	CurriculumField string              `gorm:"column:curriculum_field"`
	CourseTime      string              `gorm:"column:course_time"`
	StudentName     string              `gorm:"column:student_name"     validate:"required"`
	StudentDept     string              `gorm:"column:student_dept"`
	StudentGrade    int                 `gorm:"column:student_grade"`
	StudentStatus   string              `gorm:"column:student_status"`
	StudentClass    string              `gorm:"column:student_class"`
	TeacherName     string              `gorm:"column:teacher_name"`
	SelectResult    string              `gorm:"column:select_result"`
	CourseScore     decimal.NullDecimal `gorm:"column:course_score;type:numeric"`
	FeedbackRank    *int                `gorm:"column:feedback_rank"`
}

// TableName 指定表名
func (CourseData) TableName() string { return "course_data" }

// CourseKey 该行所属课程
func (d *CourseData) CourseKey() CourseKey {
	return CourseKey{Semester: d.Semester, CourseNo: d.CourseNo}
}

// LocationKey 该行的上课地点
func (d *CourseData) LocationKey() LocationKey {
	return LocationKey{Room: d.CourseRoom, Building: d.CourseBuilding}
}

// StudentKey 该行的学生属性组
func (d *CourseData) StudentKey() StudentKey {
	return StudentKey{
		Name:   d.StudentName,
		Dept:   d.StudentDept,
		Grade:  d.StudentGrade,
		Status: d.StudentStatus,
		Class:  d.StudentClass,
	}
}
