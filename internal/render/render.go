package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Staler2019/NCU-SQL-Class/internal/dto"
)

// 报表之间的分隔行
const separator = "---"

// Printer 把报表渲染为带边框的文本表格
//
// 颜色由 writer 决定：终端输出带样式，文件或管道输出为纯文本。
type Printer struct {
	w      io.Writer
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

// NewPrinter 创建绑定到 w 的 Printer
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		title:  r.NewStyle().Bold(true),
		header: r.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#4472C4")),
		cell:   r.NewStyle().Padding(0, 1),
		border: r.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// Print 输出一份报表：分隔行、标题、表格
func (p *Printer) Print(t *dto.Table) error {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.border).
		Headers(t.Columns...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return p.cell
		})

	_, err := fmt.Fprintf(p.w, "\n%s\n%s\n%s\n", separator, p.title.Render(t.Title), tbl.String())
	return err
}

// PrintAll 依序输出多份报表
func (p *Printer) PrintAll(tables []*dto.Table) error {
	for _, t := range tables {
		if err := p.Print(t); err != nil {
			return err
		}
	}
	return nil
}

// TextDumpName 文本转储文件名 debug-<yymmdd-HHMMSS>.txt
func TextDumpName(at time.Time) string {
	return fmt.Sprintf("debug-%s.txt", at.Format(dto.DumpTimeLayout))
}

// DumpText 把报表以纯文本写入 dir 下的转储文件，返回文件路径
func DumpText(dir string, tables []*dto.Table, at time.Time) (string, error) {
	path := filepath.Join(dir, TextDumpName(at))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建转储文件失败: %w", err)
	}
	defer f.Close()

	if err := NewPrinter(f).PrintAll(tables); err != nil {
		return "", fmt.Errorf("写入转储文件失败: %w", err)
	}
	return path, nil
}

// WriteFile 把已生成的内容（如 Excel）写入 dir，返回文件路径
func WriteFile(dir, name string, content io.Reader) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return "", fmt.Errorf("写入输出文件失败: %w", err)
	}
	return path, nil
}
