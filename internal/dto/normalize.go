package dto

// NormalizeResult 一次正规化的结果统计
type NormalizeResult struct {
	RunID            string `json:"run_id"`
	FlatRows         int    `json:"flat_rows"`
	Locations        int    `json:"locations"`
	Courses          int    `json:"courses"`
	CurriculumFields int    `json:"curriculum_fields"`
	CourseTimes      int    `json:"course_times"`
	Students         int    `json:"students"`
	Teachers         int    `json:"teachers"`
	Teaches          int    `json:"teaches"`
	Enrolls          int    `json:"enrolls"`
}

// RelocateResult 教室异动结果
type RelocateResult struct {
	CourseNo       string `json:"course_no"`
	LocationID     int64  `json:"location_id"`
	Room           string `json:"room"`
	Building       string `json:"building"`
	CoursesUpdated int64  `json:"courses_updated"`
}
