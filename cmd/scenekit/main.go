// Package main は scenekit の CLI です。HTTP API の起動と、端末からの単発生成・履歴操作を提供します。
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env は任意
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:          "scenekit",
		Short:        "商品写真を新しい背景に合成する Gemini シーン生成ツール",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("SCENEKIT_CONFIG_PATH"), "設定ファイル (YAML) のパス")

	root.AddCommand(
		serveCmd(&opts),
		generateCmd(&opts),
		historyCmd(&opts),
		presetsCmd(),
	)
	return root
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "スタイルライブラリの一覧を表示します",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPresets(cmd.OutOrStdout())
		},
	}
}
