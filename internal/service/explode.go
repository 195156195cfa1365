package service

import "strings"

// ── 多值字段拆分 ────────────────────────────────────────────
//
// 来源中的 curriculum_field / course_time / teacher_name 以逗号连接多个值。
// 正规化时逐个拆成关联表的行，查询阶段不再做字符串切分。
//
//   - 空字符串产生 0 个值（strings.Split("", ",") 会返回一个空串，必须特判）
//   - 连续或结尾逗号产生的空片段同样丢弃，避免生成空实体
//   - 非空片段原样保留，不做 TrimSpace
// ─────────────────────────────────────────────────────────────

const multiValueSep = ","

// SplitMulti 拆分逗号分隔的多值字段
func SplitMulti(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, multiValueSep)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}
