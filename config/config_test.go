package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite || cfg.Database.Path != "db.sqlite" {
		t.Errorf("数据库默认值不符: %+v", cfg.Database)
	}
	if !cfg.Database.ForeignKeys {
		t.Error("默认应开启外键")
	}
	if cfg.Report.RosterCourse != "A0002" || cfg.Report.SelectResult != "中選" {
		t.Errorf("报表默认值不符: %+v", cfg.Report)
	}
	if !cfg.Relocate.Enabled || cfg.Relocate.Room != "K210" || cfg.Relocate.Building != "工程一館" {
		t.Errorf("教室异动默认值不符: %+v", cfg.Relocate)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db:
  path: /tmp/course.sqlite
report:
  dump_format: xlsx
  roster_course: B0003
relocate:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	t.Setenv("NCU_SOURCE_PATH", "/data/flat.sql")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Database.Path != "/tmp/course.sqlite" {
		t.Errorf("期望 db.path 来自配置文件，实际 %s", cfg.Database.Path)
	}
	if cfg.Report.DumpFormat != DumpFormatExcel || cfg.Report.RosterCourse != "B0003" {
		t.Errorf("报表配置不符: %+v", cfg.Report)
	}
	if cfg.Relocate.Enabled {
		t.Error("relocate.enabled 应被配置文件关闭")
	}
	if cfg.Source.Path != "/data/flat.sql" {
		t.Errorf("期望 source.path 来自环境变量，实际 %s", cfg.Source.Path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("指定的配置文件不存在时应报错")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: DriverSQLite, Path: "db.sqlite"},
			Source:   SourceConfig{Path: "flat.sql"},
			Report:   ReportConfig{DumpFormat: DumpFormatText},
			Relocate: RelocateConfig{Enabled: true, CourseNo: "A0001"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"合法", func(c *Config) {}, ""},
		{"未知驱动", func(c *Config) { c.Database.Driver = "mysql" }, "db.driver"},
		{"SQLite 路径为空", func(c *Config) { c.Database.Path = "" }, "db.path"},
		{"Postgres 端口非法", func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.Port = 0 }, "db.port"},
		{"来源为空", func(c *Config) { c.Source.Path = "" }, "source.path"},
		{"转储格式非法", func(c *Config) { c.Report.DumpFormat = "csv" }, "dump_format"},
		{"异动缺课号", func(c *Config) { c.Relocate.CourseNo = "" }, "relocate.course_no"},
		{"关闭异动不校验课号", func(c *Config) { c.Relocate.Enabled = false; c.Relocate.CourseNo = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("期望通过，实际: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("期望包含 %q 的错误，实际: %v", tt.wantErr, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	sqlite := &DatabaseConfig{Driver: DriverSQLite, Path: "db.sqlite", ForeignKeys: true}
	if got := sqlite.DSN(); got != "file:db.sqlite?_foreign_keys=on" {
		t.Errorf("SQLite DSN 不符: %s", got)
	}
	sqlite.ForeignKeys = false
	if got := sqlite.DSN(); got != "file:db.sqlite" {
		t.Errorf("SQLite DSN 不符: %s", got)
	}

	pg := &DatabaseConfig{
		Driver: DriverPostgres, Host: "localhost", Port: 5432, User: "u", Password: "p",
		Name: "ncu", SSLMode: "disable", Timezone: "Asia/Taipei",
	}
	want := "host=localhost port=5432 user=u password=p dbname=ncu sslmode=disable TimeZone=Asia/Taipei"
	if got := pg.DSN(); got != want {
		t.Errorf("Postgres DSN 不符: %s", got)
	}
}
