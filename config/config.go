package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Database DatabaseConfig `mapstructure:"db"`
	Source   SourceConfig   `mapstructure:"source"`
	Report   ReportConfig   `mapstructure:"report"`
	Relocate RelocateConfig `mapstructure:"relocate"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig 正规化结果存储配置
//
// driver = sqlite 时仅使用 Path；driver = postgres 时使用其余连接参数。
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // sqlite | postgres
	Path        string `mapstructure:"path"`
	ForeignKeys bool   `mapstructure:"foreign_keys"` // SQLite 默认不强制外键

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Timezone string `mapstructure:"timezone"`
}

// DSN 生成数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
		)
	}
	if c.ForeignKeys {
		return fmt.Sprintf("file:%s?_foreign_keys=on", c.Path)
	}
	return fmt.Sprintf("file:%s", c.Path)
}

// SourceConfig 扁平来源数据配置
type SourceConfig struct {
	Path string `mapstructure:"path"` // 建表 + 灌数据的 SQL 脚本
}

// ReportConfig 报表输出配置
type ReportConfig struct {
	OutputDir    string `mapstructure:"output_dir"`
	DumpFormat   string `mapstructure:"dump_format"` // txt | xlsx
	RosterCourse string `mapstructure:"roster_course"`
	SelectResult string `mapstructure:"select_result"`
}

// RelocateConfig 教室异动（更正）场景配置
type RelocateConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CourseNo string `mapstructure:"course_no"`
	Room     string `mapstructure:"room"`
	Building string `mapstructure:"building"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DumpFormatText  = "txt"
	DumpFormatExcel = "xlsx"
)

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > .env > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 只是环境变量的补充来源，不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "db.sqlite")
	v.SetDefault("db.foreign_keys", true)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "ncu_course")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Taipei")

	v.SetDefault("source.path", "course_data_1nf_2023.sql")

	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.dump_format", DumpFormatText)
	v.SetDefault("report.roster_course", "A0002")
	v.SetDefault("report.select_result", "中選")

	v.SetDefault("relocate.enabled", true)
	v.SetDefault("relocate.course_no", "A0001")
	v.SetDefault("relocate.room", "K210")
	v.SetDefault("relocate.building", "工程一館")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("NCU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("配置校验失败: db.path 不能为空")
		}
	case DriverPostgres:
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("配置校验失败: db.port 必须在 1-65535 之间")
		}
	default:
		return fmt.Errorf("配置校验失败: 不支持的 db.driver %q", c.Database.Driver)
	}
	if c.Source.Path == "" {
		return fmt.Errorf("配置校验失败: source.path 不能为空")
	}
	switch c.Report.DumpFormat {
	case DumpFormatText, DumpFormatExcel:
	default:
		return fmt.Errorf("配置校验失败: 不支持的 report.dump_format %q", c.Report.DumpFormat)
	}
	if c.Relocate.Enabled && c.Relocate.CourseNo == "" {
		return fmt.Errorf("配置校验失败: relocate.course_no 不能为空")
	}
	return nil
}
