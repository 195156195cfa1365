package model

// Course 课程表，对应 course，主键 (semester, course_no)
type Course struct {
	Semester     string `gorm:"column:semester;primaryKey;type:varchar(4)"   json:"semester"`
	CourseNo     string `gorm:"column:course_no;primaryKey;type:varchar(10)" json:"course_no"`
	CourseName   string `gorm:"column:course_name;type:varchar(255)"         json:"course_name"`
	CourseType   string `gorm:"column:course_type;type:varchar(10)"          json:"course_type"`
	CourseCredit int    `gorm:"column:course_credit"                         json:"course_credit"`
	CourseLimit  int    `gorm:"column:course_limit"                          json:"course_limit"`
	CourseStatus string `gorm:"column:course_status;type:varchar(10)"        json:"course_status"`
	LocationID   int64  `gorm:"column:course_location"                       json:"location_id"`
}

// TableName 指定表名
func (Course) TableName() string { return "course" }

// Key 课程自然键
func (c *Course) Key() CourseKey {
	return CourseKey{Semester: c.Semester, CourseNo: c.CourseNo}
}

// CurriculumField 课程领域表，对应 curriculum_field，一行一个 (课程, 领域)
type CurriculumField struct {
	Semester string `gorm:"column:semester;primaryKey;type:varchar(4)"   json:"semester"`
	CourseNo string `gorm:"column:course_no;primaryKey;type:varchar(10)" json:"course_no"`
	Field    string `gorm:"column:curriculum_field;primaryKey"           json:"curriculum_field"`
}

// TableName 指定表名
func (CurriculumField) TableName() string { return "curriculum_field" }

// CourseTime 上课时段表，对应 course_time，一行一个 (课程, 时段)
type CourseTime struct {
	Semester string `gorm:"column:semester;primaryKey;type:varchar(4)"   json:"semester"`
	CourseNo string `gorm:"column:course_no;primaryKey;type:varchar(10)" json:"course_no"`
	TimeSlot string `gorm:"column:time_slot;primaryKey;type:varchar(20)" json:"time_slot"`
}

// TableName 指定表名
func (CourseTime) TableName() string { return "course_time" }
