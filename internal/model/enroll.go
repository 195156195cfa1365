package model

import "github.com/shopspring/decimal"

// Teach 授课关联表，对应 teach
type Teach struct {
	Semester  string `gorm:"column:semester;primaryKey;type:varchar(4)"     json:"semester"`
	CourseNo  string `gorm:"column:course_no;primaryKey;type:varchar(10)"   json:"course_no"`
	TeacherID int64  `gorm:"column:teacher_id;primaryKey;autoIncrement:false" json:"teacher_id"`
}

// TableName 指定表名
func (Teach) TableName() string { return "teach" }

// Enroll 选课表，对应 enroll，主键 (semester, course_no, student_id)
type Enroll struct {
	Semester     string              `gorm:"column:semester;primaryKey;type:varchar(4)"       json:"semester"`
	CourseNo     string              `gorm:"column:course_no;primaryKey;type:varchar(10)"     json:"course_no"`
	StudentID    int64               `gorm:"column:student_id;primaryKey;autoIncrement:false" json:"student_id"`
	SelectResult string              `gorm:"column:select_result;type:varchar(10)"            json:"select_result"`
	CourseScore  decimal.NullDecimal `gorm:"column:course_score;type:numeric"                 json:"course_score"`
	FeedbackRank *int                `gorm:"column:feedback_rank"                             json:"feedback_rank,omitempty"`
}

// TableName 指定表名
func (Enroll) TableName() string { return "enroll" }

// Key 选课所属课程
func (e *Enroll) Key() CourseKey {
	return CourseKey{Semester: e.Semester, CourseNo: e.CourseNo}
}
