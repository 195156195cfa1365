package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Staler2019/NCU-SQL-Class/internal/dto"
	"github.com/Staler2019/NCU-SQL-Class/internal/model"
	"github.com/Staler2019/NCU-SQL-Class/internal/repository"
	pkgerrors "github.com/Staler2019/NCU-SQL-Class/pkg/errors"
)

// NormalizeService 正规化业务接口
//
// 设计说明：
//   - 整个正规化在一个事务内完成，任何一步失败都整体回滚
//   - 代理键一律取自插入操作回填的 ID，再显式传给依赖它的插入，不依赖“最后插入 ID”
//   - 建表顺序保证外键目标先于引用方存在，提交前再做一次悬空外键复核
//   - 中途失败不可修复，唯一的恢复方式是从来源脚本重建
type NormalizeService interface {
	// Normalize 将 course_data 拆分为正规化关系并删除 course_data
	Normalize(ctx context.Context) (*dto.NormalizeResult, error)
}

type normalizeService struct {
	repo     *repository.Repository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewNormalizeService 创建 NormalizeService 实例
func NewNormalizeService(repo *repository.Repository, logger *zap.Logger) NormalizeService {
	return &normalizeService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

// courseGroup 同一课程的全部扁平行；课程属性与多值字段取第一行
type courseGroup struct {
	key   model.CourseKey
	first *model.CourseData
}

// ═══════════════════════════════════════════════════════════
// Normalize: 事务边界
// ═══════════════════════════════════════════════════════════

func (s *normalizeService) Normalize(ctx context.Context) (*dto.NormalizeResult, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	result, err := s.normalize(ctx, txRepo, logger)
	if err != nil {
		if tx != nil {
			tx.Rollback()
		}
		logger.Error("正规化失败，已回滚", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	result.RunID = runID
	logger.Info("正规化完成",
		zap.Int("flat_rows", result.FlatRows),
		zap.Int("locations", result.Locations),
		zap.Int("courses", result.Courses),
		zap.Int("curriculum_fields", result.CurriculumFields),
		zap.Int("course_times", result.CourseTimes),
		zap.Int("students", result.Students),
		zap.Int("teachers", result.Teachers),
		zap.Int("enrolls", result.Enrolls),
	)
	return result, nil
}

// normalize 按依赖顺序执行各步骤；每一步的输出可能是后续步骤的输入
func (s *normalizeService) normalize(ctx context.Context, repo *repository.Repository, logger *zap.Logger) (*dto.NormalizeResult, error) {
	rows, err := repo.Flat.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("读取扁平数据失败: %w", err)
	}
	if len(rows) == 0 {
		logger.Warn("扁平表为空，正规化结果将为空")
	}
	if err := s.validateRows(rows); err != nil {
		return nil, err
	}

	result := &dto.NormalizeResult{FlatRows: len(rows)}
	courses := groupCourses(rows)

	// 1. 地点
	locationIDs, err := s.extractLocations(ctx, repo, rows)
	if err != nil {
		return nil, err
	}
	result.Locations = len(locationIDs)

	// 2. 课程
	if err := s.extractCourses(ctx, repo, courses, locationIDs); err != nil {
		return nil, err
	}
	result.Courses = len(courses)

	// 3. 课程领域
	result.CurriculumFields, err = s.explodeCurriculumFields(ctx, repo, courses)
	if err != nil {
		return nil, err
	}

	// 4. 上课时段
	result.CourseTimes, err = s.explodeCourseTimes(ctx, repo, courses)
	if err != nil {
		return nil, err
	}

	// 5. 学生
	result.Students, err = s.extractStudents(ctx, repo, rows)
	if err != nil {
		return nil, err
	}

	// 6. 教师与授课
	result.Teachers, err = s.explodeTeachers(ctx, repo, courses)
	if err != nil {
		return nil, err
	}
	result.Teaches = result.Teachers

	// 7. 选课
	result.Enrolls, err = s.extractEnrolls(ctx, repo, rows)
	if err != nil {
		return nil, err
	}

	// 8. 丢弃扁平表
	if err := repo.Flat.Drop(ctx); err != nil {
		return nil, fmt.Errorf("删除扁平表失败: %w", err)
	}

	if err := verifyIntegrity(ctx, repo); err != nil {
		return nil, err
	}

	return result, nil
}

// ── 来源校验 ──

func (s *normalizeService) validateRows(rows []model.CourseData) error {
	for i := range rows {
		if err := s.validate.Struct(&rows[i]); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) {
				names := make([]string, 0, len(fieldErrs))
				for _, fe := range fieldErrs {
					names = append(names, fe.Field())
				}
				return fmt.Errorf("%w: 第 %d 行缺少 %s", pkgerrors.ErrInvalidSourceRow, i+1, strings.Join(names, ", "))
			}
			return fmt.Errorf("%w: 第 %d 行: %v", pkgerrors.ErrInvalidSourceRow, i+1, err)
		}
	}
	return nil
}

// groupCourses 按 (semester, course_no) 分组，保持首次出现的顺序
func groupCourses(rows []model.CourseData) []courseGroup {
	seen := make(map[model.CourseKey]bool)
	groups := make([]courseGroup, 0)
	for i := range rows {
		key := rows[i].CourseKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		groups = append(groups, courseGroup{key: key, first: &rows[i]})
	}
	return groups
}

// ── 1. 地点：按 (room, building) 去重 ──

func (s *normalizeService) extractLocations(ctx context.Context, repo *repository.Repository, rows []model.CourseData) (map[model.LocationKey]int64, error) {
	ids := make(map[model.LocationKey]int64)
	for i := range rows {
		key := rows[i].LocationKey()
		if _, ok := ids[key]; ok {
			continue
		}
		loc := &model.Location{Room: key.Room, Building: key.Building}
		if err := repo.Location.Create(ctx, loc); err != nil {
			return nil, fmt.Errorf("插入地点 (%s, %s) 失败: %w", key.Room, key.Building, err)
		}
		ids[key] = loc.LocationID
	}
	return ids, nil
}

// ── 2. 课程：按自然键去重，location_id 由地点索引解析 ──

func (s *normalizeService) extractCourses(ctx context.Context, repo *repository.Repository, courses []courseGroup, locationIDs map[model.LocationKey]int64) error {
	for _, g := range courses {
		locKey := g.first.LocationKey()
		locationID, ok := locationIDs[locKey]
		if !ok {
			return fmt.Errorf("%w: 课程 (%s, %s) 的地点 (%s, %s)",
				pkgerrors.ErrLocationUnresolved, g.key.Semester, g.key.CourseNo, locKey.Room, locKey.Building)
		}

		course := &model.Course{
			Semester:     g.key.Semester,
			CourseNo:     g.key.CourseNo,
			CourseName:   g.first.CourseName,
			CourseType:   g.first.CourseType,
			CourseCredit: g.first.CourseCredit,
			CourseLimit:  g.first.CourseLimit,
			CourseStatus: g.first.CourseStatus,
			LocationID:   locationID,
		}
		if err := repo.Course.Create(ctx, course); err != nil {
			return fmt.Errorf("插入课程 (%s, %s) 失败: %w", g.key.Semester, g.key.CourseNo, err)
		}
	}
	return nil
}

// ── 3 / 4. 多值字段拆分 ──

// explodeTokens 拆分某课程的多值字段；同一课程内重复的值会违反复合主键
func explodeTokens(key model.CourseKey, column, raw string) ([]string, error) {
	tokens := SplitMulti(raw)
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			return nil, fmt.Errorf("%w: %s (%s, %s, %q)",
				pkgerrors.ErrDuplicateKey, column, key.Semester, key.CourseNo, tok)
		}
		seen[tok] = true
	}
	return tokens, nil
}

func (s *normalizeService) explodeCurriculumFields(ctx context.Context, repo *repository.Repository, courses []courseGroup) (int, error) {
	total := 0
	for _, g := range courses {
		tokens, err := explodeTokens(g.key, "curriculum_field", g.first.CurriculumField)
		if err != nil {
			return 0, err
		}
		fields := make([]model.CurriculumField, 0, len(tokens))
		for _, tok := range tokens {
			fields = append(fields, model.CurriculumField{Semester: g.key.Semester, CourseNo: g.key.CourseNo, Field: tok})
		}
		if err := repo.CurriculumField.BatchCreate(ctx, fields); err != nil {
			return 0, fmt.Errorf("插入课程领域 (%s, %s) 失败: %w", g.key.Semester, g.key.CourseNo, err)
		}
		total += len(fields)
	}
	return total, nil
}

func (s *normalizeService) explodeCourseTimes(ctx context.Context, repo *repository.Repository, courses []courseGroup) (int, error) {
	total := 0
	for _, g := range courses {
		tokens, err := explodeTokens(g.key, "course_time", g.first.CourseTime)
		if err != nil {
			return 0, err
		}
		times := make([]model.CourseTime, 0, len(tokens))
		for _, tok := range tokens {
			times = append(times, model.CourseTime{Semester: g.key.Semester, CourseNo: g.key.CourseNo, TimeSlot: tok})
		}
		if err := repo.CourseTime.BatchCreate(ctx, times); err != nil {
			return 0, fmt.Errorf("插入上课时段 (%s, %s) 失败: %w", g.key.Semester, g.key.CourseNo, err)
		}
		total += len(times)
	}
	return total, nil
}

// ── 5. 学生：按完整属性组去重 ──

func (s *normalizeService) extractStudents(ctx context.Context, repo *repository.Repository, rows []model.CourseData) (int, error) {
	seen := make(map[model.StudentKey]bool)
	for i := range rows {
		key := rows[i].StudentKey()
		if seen[key] {
			continue
		}
		seen[key] = true

		student := &model.Student{
			StudentName:   key.Name,
			StudentDept:   key.Dept,
			StudentGrade:  key.Grade,
			StudentStatus: key.Status,
			StudentClass:  key.Class,
		}
		if err := repo.Student.Create(ctx, student); err != nil {
			return 0, fmt.Errorf("插入学生 %s 失败: %w", key.Name, err)
		}
	}
	return len(seen), nil
}

// ── 6. 教师与授课：每个出现都新建教师，不按姓名合并 ──

func (s *normalizeService) explodeTeachers(ctx context.Context, repo *repository.Repository, courses []courseGroup) (int, error) {
	total := 0
	for _, g := range courses {
		for _, name := range SplitMulti(g.first.TeacherName) {
			teacher := &model.Teacher{TeacherName: name}
			if err := repo.Teacher.Create(ctx, teacher); err != nil {
				return 0, fmt.Errorf("插入教师 %s 失败: %w", name, err)
			}

			teach := &model.Teach{
				Semester:  g.key.Semester,
				CourseNo:  g.key.CourseNo,
				TeacherID: teacher.TeacherID,
			}
			if err := repo.Teach.Create(ctx, teach); err != nil {
				return 0, fmt.Errorf("插入授课 (%s, %s, %d) 失败: %w", g.key.Semester, g.key.CourseNo, teacher.TeacherID, err)
			}
			total++
		}
	}
	return total, nil
}

// ── 7. 选课：一行扁平数据对应一行选课，学生按姓名精确匹配 ──

func (s *normalizeService) extractEnrolls(ctx context.Context, repo *repository.Repository, rows []model.CourseData) (int, error) {
	type enrollKey struct {
		course    model.CourseKey
		studentID int64
	}

	studentIDs := make(map[string]int64)
	seen := make(map[enrollKey]bool, len(rows))
	enrolls := make([]model.Enroll, 0, len(rows))

	for i := range rows {
		row := &rows[i]
		studentID, ok := studentIDs[row.StudentName]
		if !ok {
			id, err := resolveStudent(ctx, repo, row)
			if err != nil {
				return 0, err
			}
			studentID = id
			studentIDs[row.StudentName] = id
		}

		key := enrollKey{course: row.CourseKey(), studentID: studentID}
		if seen[key] {
			return 0, fmt.Errorf("%w: enroll (%s, %s, %s)",
				pkgerrors.ErrDuplicateKey, row.Semester, row.CourseNo, row.StudentName)
		}
		seen[key] = true

		enrolls = append(enrolls, model.Enroll{
			Semester:     row.Semester,
			CourseNo:     row.CourseNo,
			StudentID:    studentID,
			SelectResult: row.SelectResult,
			CourseScore:  row.CourseScore,
			FeedbackRank: row.FeedbackRank,
		})
	}

	if err := repo.Enroll.BatchCreate(ctx, enrolls); err != nil {
		return 0, fmt.Errorf("插入选课失败: %w", err)
	}
	return len(enrolls), nil
}

// resolveStudent 按姓名回查去重后的学生；0 个或多个匹配都视为完整性错误
func resolveStudent(ctx context.Context, repo *repository.Repository, row *model.CourseData) (int64, error) {
	students, err := repo.Student.ListByName(ctx, row.StudentName)
	if err != nil {
		return 0, fmt.Errorf("查询学生 %s 失败: %w", row.StudentName, err)
	}
	switch len(students) {
	case 0:
		return 0, fmt.Errorf("%w: (%s, %s) 的 %s",
			pkgerrors.ErrStudentNotFound, row.Semester, row.CourseNo, row.StudentName)
	case 1:
		return students[0].StudentID, nil
	default:
		return 0, fmt.Errorf("%w: (%s, %s) 的 %s 对应 %d 位学生",
			pkgerrors.ErrStudentAmbiguous, row.Semester, row.CourseNo, row.StudentName, len(students))
	}
}

// ── 完整性复核 ──

func verifyIntegrity(ctx context.Context, repo *repository.Repository) error {
	counts, err := repo.Integrity.CountOrphans(ctx)
	if err != nil {
		return err
	}

	var broken []string
	for _, c := range counts {
		if c.Count > 0 {
			broken = append(broken, fmt.Sprintf("%s=%d", c.Relation, c.Count))
		}
	}
	if len(broken) > 0 {
		return fmt.Errorf("%w: %s", pkgerrors.ErrIntegrityViolation, strings.Join(broken, "; "))
	}
	return nil
}
