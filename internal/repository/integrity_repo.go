package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// OrphanCount 某条外键关系上的悬空行数
type OrphanCount struct {
	Relation string
	Count    int64
}

// IntegrityRepository 参照完整性检查接口
//
// SQLite 默认不强制外键，正规化的建表顺序负责保证完整性，这里事后复核。
type IntegrityRepository interface {
	CountOrphans(ctx context.Context) ([]OrphanCount, error)
}

type integrityRepo struct {
	db *gorm.DB
}

// NewIntegrityRepo 创建 IntegrityRepository 实例
func NewIntegrityRepo(db *gorm.DB) IntegrityRepository {
	return &integrityRepo{db: db}
}

// orphanCheck 以 LEFT JOIN 目标表、目标列为 NULL 的方式找悬空行
type orphanCheck struct {
	relation string
	from     string
	join     string
	nullCol  string
}

var orphanChecks = []orphanCheck{
	{"course.course_location → location", "course c", "location l ON l.location_id = c.course_location", "l.location_id"},
	{"curriculum_field → course", "curriculum_field x", "course c ON c.semester = x.semester AND c.course_no = x.course_no", "c.course_no"},
	{"course_time → course", "course_time x", "course c ON c.semester = x.semester AND c.course_no = x.course_no", "c.course_no"},
	{"teach → course", "teach x", "course c ON c.semester = x.semester AND c.course_no = x.course_no", "c.course_no"},
	{"teach → teacher", "teach x", "teacher t ON t.teacher_id = x.teacher_id", "t.teacher_id"},
	{"teacher → teach", "teacher t", "teach x ON x.teacher_id = t.teacher_id", "x.teacher_id"},
	{"enroll → course", "enroll x", "course c ON c.semester = x.semester AND c.course_no = x.course_no", "c.course_no"},
	{"enroll → student", "enroll x", "student s ON s.student_id = x.student_id", "s.student_id"},
}

func (r *integrityRepo) CountOrphans(ctx context.Context) ([]OrphanCount, error) {
	result := make([]OrphanCount, 0, len(orphanChecks))
	for _, check := range orphanChecks {
		query, args, err := sq.Select("COUNT(*)").
			From(check.from).
			LeftJoin(check.join).
			Where(sq.Eq{check.nullCol: nil}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("构建完整性查询失败 (%s): %w", check.relation, err)
		}

		var count int64
		if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&count).Error; err != nil {
			return nil, fmt.Errorf("执行完整性查询失败 (%s): %w", check.relation, err)
		}
		result = append(result, OrphanCount{Relation: check.relation, Count: count})
	}
	return result, nil
}
