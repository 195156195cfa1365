package errors

import "errors"

// ── 启动阶段错误（致命，发生在任何正规化工作之前）──

// ErrSourceNotFound 来源脚本不存在或执行后未产生扁平表
var ErrSourceNotFound = errors.New("来源数据不存在")

// ── 完整性错误：外键解析不到目标、或复合主键冲突 ──

var (
	// ErrStudentNotFound 按姓名找不到学生
	ErrStudentNotFound = errors.New("按姓名找不到学生")
	// ErrStudentAmbiguous 同名学生不止一位，无法确定选课归属
	ErrStudentAmbiguous = errors.New("同名学生不止一位")
	// ErrLocationUnresolved 课程的 (教室, 大楼) 没有对应地点
	ErrLocationUnresolved = errors.New("找不到课程对应的上课地点")
	// ErrDuplicateKey 复合主键重复
	ErrDuplicateKey = errors.New("复合主键重复")
	// ErrIntegrityViolation 正规化后仍存在悬空外键
	ErrIntegrityViolation = errors.New("参照完整性检查未通过")
)

// ErrInvalidSourceRow 扁平数据行缺少必要字段
var ErrInvalidSourceRow = errors.New("来源数据行格式错误")
