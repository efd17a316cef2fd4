// Package cli 推荐器的离线命令行工具
// 每个命令在进程内加载目录 CSV、构建相似度快照并输出纯文本
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"kdrama_recommend/internal/catalog"
	"kdrama_recommend/internal/recommend"

	"github.com/spf13/cobra"
)

// Version 构建时注入
var Version = "0.1.0"

type options struct {
	catalogPath string
	quiet       bool
	engine      *recommend.Engine
}

// NewRootCommand 构建命令树，结果写入 out，被跳过的目录行写入 errOut
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "kdramactl",
		Short: "Content-based KDrama recommendations from a catalog CSV",
		Long: `kdramactl answers similarity queries against a KDrama catalog.

The catalog is a CSV file whose header names the attributes Name,
Year of release, Original Network, Aired On, Duration, Content Rating,
Genre and Rating. Rows missing any of them are skipped with a warning.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return opts.load(cmd.Context(), errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVarP(&opts.catalogPath, "catalog", "c", "data/kdrama.csv", "path to the catalog CSV")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not report skipped rows")

	root.AddCommand(newRecommendCmd(opts))
	root.AddCommand(newLookupCmd(opts))
	root.AddCommand(newTrendingCmd(opts))
	return root
}

func (o *options) load(ctx context.Context, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	o.engine = recommend.NewEngine(catalog.NewCSVLoader(o.catalogPath))
	snap, err := o.engine.Reload(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if !o.quiet {
		for _, w := range snap.Warnings {
			fmt.Fprintf(errOut, "Warning: %s\n", w)
		}
	}
	return nil
}

// Execute 使用进程参数执行根命令
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}
