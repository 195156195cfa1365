package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Staler2019/NCU-SQL-Class/internal/dto"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoTables     = errors.New("没有可导出的报表")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 报表全量导出为 Excel (.xlsx)，每份报表一个 Sheet，不截断
//   - 导出以 bytes.Buffer 返回，由调用方决定写入位置
//   - 文件名带生成时间，与文本转储的命名一致
type ExportService interface {
	// ExportTables 导出报表为 Excel
	ExportTables(ctx context.Context, tables []*dto.Table, generatedAt time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(logger *zap.Logger) ExportService {
	return &exportService{logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTables: 导出报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet 名取报表标题的题号（如 "3.5"），取不到时用 "报表N"
//   - 第 1 行：标题（合并单元格）
//   - 第 2 行：列头
//   - 第 3 行起：数据
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportTables(ctx context.Context, tables []*dto.Table, generatedAt time.Time) (*bytes.Buffer, string, error) {
	if len(tables) == 0 {
		return nil, "", ErrExportNoTables
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	used := make(map[string]bool)
	for i, table := range tables {
		sheetName := sheetNameFor(table, i, used)
		used[sheetName] = true

		idx, err := f.NewSheet(sheetName)
		if err != nil {
			s.logger.Error("创建 Sheet 失败", zap.String("sheet", sheetName), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		cols := len(table.Columns)
		if cols == 0 {
			cols = 1
		}
		for c := 0; c < cols; c++ {
			f.SetColWidth(sheetName, colName(c), colName(c), 20)
		}

		// 标题行
		f.SetCellValue(sheetName, cell("A", 1), table.Title)
		f.MergeCell(sheetName, "A1", cell(colName(cols-1), 1))
		f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

		// 表头
		for c, name := range table.Columns {
			f.SetCellValue(sheetName, cell(colName(c), 2), name)
		}
		if len(table.Columns) > 0 {
			f.SetCellStyle(sheetName, "A2", cell(colName(len(table.Columns)-1), 2), headerStyle)
		}

		// 数据行
		for r, values := range table.Rows {
			for c, v := range values {
				f.SetCellValue(sheetName, cell(colName(c), r+3), v)
			}
		}
	}
	// 删除默认 Sheet1
	if !used["Sheet1"] {
		f.DeleteSheet("Sheet1")
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("report-%s.xlsx", generatedAt.Format(dto.DumpTimeLayout))
	return buf, filename, nil
}

// ── 辅助函数 ──

// sheetNameFor 取标题第一个词作为 Sheet 名，冲突或非法时回退到序号
func sheetNameFor(table *dto.Table, idx int, used map[string]bool) string {
	fallback := fmt.Sprintf("报表%d", idx+1)
	fields := strings.Fields(table.Title)
	if len(fields) == 0 {
		return fallback
	}
	name := fields[0]
	if len([]rune(name)) > 31 || strings.ContainsAny(name, `:\/?*[]`) || used[name] {
		return fallback
	}
	return name
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
