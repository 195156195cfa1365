package dto

// DumpTimeLayout 转储文件名中的时间格式（yymmdd-HHMMSS）
const DumpTimeLayout = "060102-150405"

// Table 一份报表：标题 + 固定列头 + 已格式化的单元格
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}

// AddRow 追加一行
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
