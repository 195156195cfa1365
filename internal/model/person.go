package model

// Student 学生表，对应 student
type Student struct {
	StudentID     int64  `gorm:"column:student_id;primaryKey;autoIncrement" json:"student_id"`
	StudentName   string `gorm:"column:student_name;type:varchar(20)"        json:"student_name"`
	StudentDept   string `gorm:"column:student_dept;type:varchar(30)"        json:"student_dept"`
	StudentGrade  int    `gorm:"column:student_grade"                        json:"student_grade"`
	StudentStatus string `gorm:"column:student_status;type:varchar(10)"      json:"student_status"`
	StudentClass  string `gorm:"column:student_class;type:varchar(1)"        json:"student_class"`
}

// TableName 指定表名
func (Student) TableName() string { return "student" }

// Key 学生属性组
func (s *Student) Key() StudentKey {
	return StudentKey{
		Name:   s.StudentName,
		Dept:   s.StudentDept,
		Grade:  s.StudentGrade,
		Status: s.StudentStatus,
		Class:  s.StudentClass,
	}
}

// Teacher 教师表，对应 teacher
//
// 姓名不唯一：每个逗号分隔的出现都会新建一行，同名教师不合并。
type Teacher struct {
	TeacherID   int64  `gorm:"column:teacher_id;primaryKey;autoIncrement" json:"teacher_id"`
	TeacherName string `gorm:"column:teacher_name;type:varchar(20)"        json:"teacher_name"`
}

// TableName 指定表名
func (Teacher) TableName() string { return "teacher" }
