package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Staler2019/NCU-SQL-Class/internal/model"
	"github.com/Staler2019/NCU-SQL-Class/internal/repository"
)

// ── 内存存储：所有 mock repo 共享，便于断言跨表不变量 ──

type memStore struct {
	flat        []model.CourseData
	flatDropped bool

	locations []model.Location
	courses   []model.Course
	fields    []model.CurriculumField
	times     []model.CourseTime
	students  []model.Student
	teachers  []model.Teacher
	teaches   []model.Teach
	enrolls   []model.Enroll
}

func newMemStore(flat []model.CourseData) *memStore {
	return &memStore{flat: flat}
}

func (m *memStore) hasCourse(key model.CourseKey) bool {
	for i := range m.courses {
		if m.courses[i].Key() == key {
			return true
		}
	}
	return false
}

func (m *memStore) hasLocation(id int64) bool {
	for i := range m.locations {
		if m.locations[i].LocationID == id {
			return true
		}
	}
	return false
}

func errUnique(table string) error {
	return fmt.Errorf("UNIQUE constraint failed: %s", table)
}

// newMockRepository 组装一个未注入 db 的聚合：BeginTx 返回 nil 事务
func newMockRepository(store *memStore) *repository.Repository {
	return &repository.Repository{
		Flat:            &mockFlatRepo{store: store},
		Location:        &mockLocationRepo{store: store},
		Course:          &mockCourseRepo{store: store},
		CurriculumField: &mockCurriculumFieldRepo{store: store},
		CourseTime:      &mockCourseTimeRepo{store: store},
		Student:         &mockStudentRepo{store: store},
		Teacher:         &mockTeacherRepo{store: store},
		Teach:           &mockTeachRepo{store: store},
		Enroll:          &mockEnrollRepo{store: store},
		Integrity:       &mockIntegrityRepo{store: store},
		Report:          &mockReportRepo{},
	}
}

// ── Mock FlatRepository ──

type mockFlatRepo struct {
	store *memStore
}

func (m *mockFlatRepo) List(_ context.Context) ([]model.CourseData, error) {
	if m.store.flatDropped {
		return nil, fmt.Errorf("no such table: course_data")
	}
	out := make([]model.CourseData, len(m.store.flat))
	copy(out, m.store.flat)
	return out, nil
}

func (m *mockFlatRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.flat)), nil
}

func (m *mockFlatRepo) Drop(_ context.Context) error {
	m.store.flatDropped = true
	m.store.flat = nil
	return nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	store     *memStore
	createErr error
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if m.createErr != nil {
		return m.createErr
	}
	loc.LocationID = int64(len(m.store.locations) + 1)
	m.store.locations = append(m.store.locations, *loc)
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id int64) (*model.Location, error) {
	for i := range m.store.locations {
		if m.store.locations[i].LocationID == id {
			loc := m.store.locations[i]
			return &loc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context) ([]model.Location, error) {
	return m.store.locations, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	store *memStore
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if m.store.hasCourse(course.Key()) {
		return errUnique("course")
	}
	m.store.courses = append(m.store.courses, *course)
	return nil
}

func (m *mockCourseRepo) GetByKey(_ context.Context, key model.CourseKey) (*model.Course, error) {
	for i := range m.store.courses {
		if m.store.courses[i].Key() == key {
			c := m.store.courses[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) ListByCourseNo(_ context.Context, courseNo string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.store.courses {
		if c.CourseNo == courseNo {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	return m.store.courses, nil
}

func (m *mockCourseRepo) UpdateLocation(_ context.Context, courseNo string, locationID int64) (int64, error) {
	var affected int64
	for i := range m.store.courses {
		if m.store.courses[i].CourseNo == courseNo {
			m.store.courses[i].LocationID = locationID
			affected++
		}
	}
	return affected, nil
}

// ── Mock CurriculumFieldRepository ──

type mockCurriculumFieldRepo struct {
	store *memStore
}

func (m *mockCurriculumFieldRepo) BatchCreate(_ context.Context, fields []model.CurriculumField) error {
	for _, f := range fields {
		for _, existing := range m.store.fields {
			if existing == f {
				return errUnique("curriculum_field")
			}
		}
		m.store.fields = append(m.store.fields, f)
	}
	return nil
}

func (m *mockCurriculumFieldRepo) ListByCourse(_ context.Context, key model.CourseKey) ([]model.CurriculumField, error) {
	var result []model.CurriculumField
	for _, f := range m.store.fields {
		if f.Semester == key.Semester && f.CourseNo == key.CourseNo {
			result = append(result, f)
		}
	}
	return result, nil
}

func (m *mockCurriculumFieldRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.fields)), nil
}

// ── Mock CourseTimeRepository ──

type mockCourseTimeRepo struct {
	store *memStore
}

func (m *mockCourseTimeRepo) BatchCreate(_ context.Context, times []model.CourseTime) error {
	for _, t := range times {
		for _, existing := range m.store.times {
			if existing == t {
				return errUnique("course_time")
			}
		}
		m.store.times = append(m.store.times, t)
	}
	return nil
}

func (m *mockCourseTimeRepo) ListByCourse(_ context.Context, key model.CourseKey) ([]model.CourseTime, error) {
	var result []model.CourseTime
	for _, t := range m.store.times {
		if t.Semester == key.Semester && t.CourseNo == key.CourseNo {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockCourseTimeRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.times)), nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	store *memStore
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	student.StudentID = int64(len(m.store.students) + 1)
	m.store.students = append(m.store.students, *student)
	return nil
}

func (m *mockStudentRepo) ListByName(_ context.Context, name string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.store.students {
		if s.StudentName == name {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) List(_ context.Context) ([]model.Student, error) {
	return m.store.students, nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	store *memStore
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	teacher.TeacherID = int64(len(m.store.teachers) + 1)
	m.store.teachers = append(m.store.teachers, *teacher)
	return nil
}

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	return m.store.teachers, nil
}

// ── Mock TeachRepository ──

type mockTeachRepo struct {
	store *memStore
}

func (m *mockTeachRepo) Create(_ context.Context, teach *model.Teach) error {
	for _, existing := range m.store.teaches {
		if existing == *teach {
			return errUnique("teach")
		}
	}
	m.store.teaches = append(m.store.teaches, *teach)
	return nil
}

func (m *mockTeachRepo) List(_ context.Context) ([]model.Teach, error) {
	return m.store.teaches, nil
}

// ── Mock EnrollRepository ──

type mockEnrollRepo struct {
	store *memStore
}

func (m *mockEnrollRepo) BatchCreate(_ context.Context, enrolls []model.Enroll) error {
	for _, e := range enrolls {
		for _, existing := range m.store.enrolls {
			if existing.Key() == e.Key() && existing.StudentID == e.StudentID {
				return errUnique("enroll")
			}
		}
		m.store.enrolls = append(m.store.enrolls, e)
	}
	return nil
}

func (m *mockEnrollRepo) ListByCourse(_ context.Context, key model.CourseKey) ([]model.Enroll, error) {
	var result []model.Enroll
	for _, e := range m.store.enrolls {
		if e.Key() == key {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEnrollRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.store.enrolls)), nil
}

// ── Mock IntegrityRepository：直接在内存表上数悬空外键 ──

type mockIntegrityRepo struct {
	store *memStore
}

func (m *mockIntegrityRepo) CountOrphans(_ context.Context) ([]repository.OrphanCount, error) {
	s := m.store
	var courseLoc, fieldCourse, timeCourse, teachCourse, teachTeacher, teacherTeach, enrollCourse, enrollStudent int64

	for _, c := range s.courses {
		if !s.hasLocation(c.LocationID) {
			courseLoc++
		}
	}
	for _, f := range s.fields {
		if !s.hasCourse(model.CourseKey{Semester: f.Semester, CourseNo: f.CourseNo}) {
			fieldCourse++
		}
	}
	for _, t := range s.times {
		if !s.hasCourse(model.CourseKey{Semester: t.Semester, CourseNo: t.CourseNo}) {
			timeCourse++
		}
	}
	teacherIDs := make(map[int64]bool)
	for _, t := range s.teachers {
		teacherIDs[t.TeacherID] = true
	}
	taught := make(map[int64]bool)
	for _, th := range s.teaches {
		if !s.hasCourse(model.CourseKey{Semester: th.Semester, CourseNo: th.CourseNo}) {
			teachCourse++
		}
		if !teacherIDs[th.TeacherID] {
			teachTeacher++
		}
		taught[th.TeacherID] = true
	}
	for _, t := range s.teachers {
		if !taught[t.TeacherID] {
			teacherTeach++
		}
	}
	studentIDs := make(map[int64]bool)
	for _, st := range s.students {
		studentIDs[st.StudentID] = true
	}
	for _, e := range s.enrolls {
		if !s.hasCourse(e.Key()) {
			enrollCourse++
		}
		if !studentIDs[e.StudentID] {
			enrollStudent++
		}
	}

	return []repository.OrphanCount{
		{Relation: "course.course_location → location", Count: courseLoc},
		{Relation: "curriculum_field → course", Count: fieldCourse},
		{Relation: "course_time → course", Count: timeCourse},
		{Relation: "teach → course", Count: teachCourse},
		{Relation: "teach → teacher", Count: teachTeacher},
		{Relation: "teacher → teach", Count: teacherTeach},
		{Relation: "enroll → course", Count: enrollCourse},
		{Relation: "enroll → student", Count: enrollStudent},
	}, nil
}

// ── Mock ReportRepository：返回预置结果 ──

type mockReportRepo struct {
	roster         []repository.RosterRow
	participations []repository.ParticipationRow
	courseTeachers []repository.CourseTeacherRow
	fieldCounts    []repository.FieldCountRow
	deptCounts     []repository.DeptCountRow
	feedback       []repository.FeedbackRow
	err            error

	lastCourseNo     string
	lastSelectResult string
}

func (m *mockReportRepo) Roster(_ context.Context, courseNo, selectResult string) ([]repository.RosterRow, error) {
	m.lastCourseNo, m.lastSelectResult = courseNo, selectResult
	return m.roster, m.err
}

func (m *mockReportRepo) ListParticipations(_ context.Context, selectResult string) ([]repository.ParticipationRow, error) {
	m.lastSelectResult = selectResult
	return m.participations, m.err
}

func (m *mockReportRepo) ListCourseTeachers(_ context.Context) ([]repository.CourseTeacherRow, error) {
	return m.courseTeachers, m.err
}

func (m *mockReportRepo) FieldCounts(_ context.Context, selectResult string) ([]repository.FieldCountRow, error) {
	m.lastSelectResult = selectResult
	return m.fieldCounts, m.err
}

func (m *mockReportRepo) DeptCounts(_ context.Context, selectResult string) ([]repository.DeptCountRow, error) {
	return m.deptCounts, m.err
}

func (m *mockReportRepo) FeedbackSummary(_ context.Context) ([]repository.FeedbackRow, error) {
	return m.feedback, m.err
}
