package model

// ── 值相等分组用的键 ──
//
// 来源数据没有任何显式键，实体身份只能靠列值相等推断。

// CourseKey 课程自然键 (semester, course_no)
type CourseKey struct {
	Semester string
	CourseNo string
}

// LocationKey 地点唯一性依据 (room, building)
type LocationKey struct {
	Room     string
	Building string
}

// StudentKey 学生唯一性依据：全部显示属性
//
// 两位属性完全相同的学生会被合并为一行，这是来源缺少学号时接受的近似。
type StudentKey struct {
	Name   string
	Dept   string
	Grade  int
	Status string
	Class  string
}
