package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Staler2019/NCU-SQL-Class/config"
	"github.com/Staler2019/NCU-SQL-Class/internal/dto"
	"github.com/Staler2019/NCU-SQL-Class/internal/model"
	"github.com/Staler2019/NCU-SQL-Class/internal/repository"
)

// ── 及格线判定 ──
//
// 系所名以「系」结尾视为大学部，其余（研究所、学位学程等）视为碩博。

const (
	undergraduateDeptSuffix = "系"
	undergraduatePassScore  = 60
	graduatePassScore       = 70
)

// IsUndergraduate 是否为大学部学生
func IsUndergraduate(dept string) bool {
	return strings.HasSuffix(dept, undergraduateDeptSuffix)
}

// PassScore 该系所学生的及格分数
func PassScore(dept string) int {
	if IsUndergraduate(dept) {
		return undergraduatePassScore
	}
	return graduatePassScore
}

// IsFailing 成绩低于及格线即不及格；没有成绩不算不及格
func IsFailing(dept string, score decimal.NullDecimal) bool {
	if !score.Valid {
		return false
	}
	return score.Decimal.LessThan(decimal.NewFromInt(int64(PassScore(dept))))
}

// ReportService 固定报表业务接口
//
// 每份报表都是独立的只读聚合，互不依赖。
type ReportService interface {
	// Roster 3.2 某课号的点名表（仅中选学生）
	Roster(ctx context.Context, courseNo string) (*dto.Table, error)
	// FailRate 3.3 各课程不及格比例（按授课教师展开）
	FailRate(ctx context.Context) (*dto.Table, error)
	// FieldDistribution 3.4 各系学生修课领域分布
	FieldDistribution(ctx context.Context) (*dto.Table, error)
	// FeedbackSummary 3.5 教学评量总分与平均分
	FeedbackSummary(ctx context.Context) (*dto.Table, error)
}

type reportService struct {
	repo         *repository.Repository
	selectResult string
	logger       *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.ReportConfig, repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, selectResult: cfg.SelectResult, logger: logger}
}

// ratePlaces 比例保留的小数位数
const ratePlaces = 4

// ────────────────────── 3.2 Roster ──────────────────────

func (s *reportService) Roster(ctx context.Context, courseNo string) (*dto.Table, error) {
	rows, err := s.repo.Report.Roster(ctx, courseNo, s.selectResult)
	if err != nil {
		s.logger.Error("查询点名表失败", zap.String("course_no", courseNo), zap.Error(err))
		return nil, err
	}

	table := &dto.Table{
		Title:   fmt.Sprintf("3.2 請列出「%s」的修課名單（點名表）", courseNo),
		Columns: []string{"姓名", "系所", "年級", "班級"},
	}
	for _, r := range rows {
		table.AddRow(r.StudentName, r.StudentDept, strconv.Itoa(r.StudentGrade), r.StudentClass)
	}
	return table, nil
}

// ────────────────────── 3.3 FailRate ──────────────────────

func (s *reportService) FailRate(ctx context.Context) (*dto.Table, error) {
	participations, err := s.repo.Report.ListParticipations(ctx, s.selectResult)
	if err != nil {
		s.logger.Error("查询修课记录失败", zap.Error(err))
		return nil, err
	}
	teachers, err := s.repo.Report.ListCourseTeachers(ctx)
	if err != nil {
		s.logger.Error("查询授课教师失败", zap.Error(err))
		return nil, err
	}

	type courseStat struct {
		name     string
		students int64
		failed   int64
	}
	stats := make(map[model.CourseKey]*courseStat)
	for _, p := range participations {
		key := model.CourseKey{Semester: p.Semester, CourseNo: p.CourseNo}
		st, ok := stats[key]
		if !ok {
			st = &courseStat{name: p.CourseName}
			stats[key] = st
		}
		st.students++
		if IsFailing(p.StudentDept, p.CourseScore) {
			st.failed++
		}
	}

	table := &dto.Table{
		Title:   "3.3 請列出課程成績不及格的學生比例資料（大學部：低於60分、碩博：70分）",
		Columns: []string{"課名", "授課教師", "不及格人次", "修課人次", "不及格比例"},
	}
	// 只列出至少有一人不及格的课程，每位授课教师一行
	for _, t := range teachers {
		st, ok := stats[model.CourseKey{Semester: t.Semester, CourseNo: t.CourseNo}]
		if !ok || st.failed == 0 {
			continue
		}
		rate := decimal.NewFromInt(st.failed).DivRound(decimal.NewFromInt(st.students), ratePlaces)
		table.AddRow(
			st.name,
			t.TeacherName,
			strconv.FormatInt(st.failed, 10),
			strconv.FormatInt(st.students, 10),
			rate.StringFixed(ratePlaces),
		)
	}
	return table, nil
}

// ────────────────────── 3.4 FieldDistribution ──────────────────────

func (s *reportService) FieldDistribution(ctx context.Context) (*dto.Table, error) {
	fields, err := s.repo.Report.FieldCounts(ctx, s.selectResult)
	if err != nil {
		s.logger.Error("查询领域人次失败", zap.Error(err))
		return nil, err
	}
	depts, err := s.repo.Report.DeptCounts(ctx, s.selectResult)
	if err != nil {
		s.logger.Error("查询系所人次失败", zap.Error(err))
		return nil, err
	}

	deptTotals := make(map[string]int64, len(depts))
	for _, d := range depts {
		deptTotals[d.StudentDept] = d.DeptPersons
	}

	table := &dto.Table{
		Title:   "3.4 請列出各系學生修課領域分佈情況",
		Columns: []string{"學生系所", "課程領域", "人次", "佔比"},
	}
	for _, f := range fields {
		total := deptTotals[f.StudentDept]
		if total == 0 {
			continue
		}
		rate := decimal.NewFromInt(f.FieldPersons).DivRound(decimal.NewFromInt(total), ratePlaces)
		table.AddRow(
			f.StudentDept,
			f.CurriculumField,
			strconv.FormatInt(f.FieldPersons, 10),
			rate.StringFixed(ratePlaces),
		)
	}
	return table, nil
}

// ────────────────────── 3.5 FeedbackSummary ──────────────────────

func (s *reportService) FeedbackSummary(ctx context.Context) (*dto.Table, error) {
	rows, err := s.repo.Report.FeedbackSummary(ctx)
	if err != nil {
		s.logger.Error("查询教学评量失败", zap.Error(err))
		return nil, err
	}

	table := &dto.Table{
		Title:   "3.5 請列出教學評量平均分數及總分",
		Columns: []string{"課名", "授課教師", "教學評量總分", "教學評量平均分數"},
	}
	for _, r := range rows {
		table.AddRow(
			r.CourseName,
			r.TeacherName,
			strconv.FormatInt(r.FeedbackSum, 10),
			r.FeedbackAvg.StringFixed(2),
		)
	}
	return table, nil
}
