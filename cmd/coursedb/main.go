package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// 命令行参数，非空时覆盖配置文件
type options struct {
	configPath   string
	sourcePath   string
	dbPath       string
	dumpFormat   string
	skipRelocate bool
}

func main() {
	// Ctrl+C 取消正在执行的查询，事务随之回滚
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "coursedb",
		Short:         "把扁平选课数据正规化并输出固定报表",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "配置文件路径（默认查找 ./config.yaml 与 ./config/config.yaml）")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite 数据库文件路径")
	flags.StringVar(&opts.dumpFormat, "dump-format", "", "3.5 转储格式：txt 或 xlsx")

	root.AddCommand(runCmd(opts), reportCmd(opts))
	return root
}

func runCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "重建数据库：载入来源、正规化、教室异动，然后输出报表",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			return a.run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.sourcePath, "source", "s", "", "扁平数据 SQL 脚本路径")
	cmd.Flags().BoolVar(&opts.skipRelocate, "skip-relocate", false, "跳过教室异动")
	return cmd
}

func reportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "对已正规化的数据库重新输出报表",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.connect(); err != nil {
				return err
			}
			return a.report(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
