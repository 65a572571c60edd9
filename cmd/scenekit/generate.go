package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shouni/gemini-scene-kit/pkg/domain"
)

type generateOptions struct {
	imagePath string
	prompt    string
	preset    int
	ratio     string
	outPath   string
}

func generateCmd(opts *globalOptions) *cobra.Command {
	var g generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "商品画像から1枚のシーン画像を生成し、履歴に記録します",
		RunE: func(cmd *cobra.Command, args []string) error {
			promptSet := cmd.Flags().Changed("prompt")
			return runGenerate(cmd.Context(), opts, g, promptSet)
		},
	}
	cmd.Flags().StringVar(&g.imagePath, "image", "", "商品画像のパスまたは gs:// / s3:// URI (JPEG/PNG/WebP)")
	cmd.Flags().StringVar(&g.prompt, "prompt", "", "シーンの説明。空なら汎用のスタジオシーン")
	cmd.Flags().IntVar(&g.preset, "preset", -1, "スタイルライブラリの番号 (scenekit presets で確認)")
	cmd.Flags().StringVar(&g.ratio, "ratio", domain.DefaultAspectRatio, "出力のアスペクト比 (9:16, 16:9, 1:1, 4:3, 3:4)")
	cmd.Flags().StringVar(&g.outPath, "out", "", "出力先のパスまたは gs:// / s3:// URI。省略時は cenario-produto-nanobanana.<ext>")
	cmd.MarkFlagsMutuallyExclusive("prompt", "preset")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func runGenerate(ctx context.Context, opts *globalOptions, g generateOptions, promptSet bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	storage := newStorageIO(a.logger.Named("storage"))
	defer storage.Close()

	data, err := storage.ReadAll(ctx, g.imagePath)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	st, err := a.newStudio(ctx)
	if err != nil {
		return err
	}

	if err := st.Upload(ctx, data, http.DetectContentType(data)); err != nil {
		return err
	}
	switch {
	case promptSet:
		err = st.SetPrompt(g.prompt)
	case g.preset >= 0:
		err = st.SelectPreset(g.preset)
	}
	if err != nil {
		return err
	}
	if err := st.ChangeRatio(g.ratio); err != nil {
		return err
	}

	outcome, err := st.Generate(ctx)
	if err != nil {
		return err
	}
	if !outcome.IsSuccess() {
		return errors.New(outcome.UserMessage())
	}

	mimeType, img, err := st.Result()
	if err != nil {
		return err
	}
	out := g.outPath
	if out == "" {
		out = "cenario-produto-nanobanana" + extensionFor(mimeType)
	}
	if err := storage.Write(ctx, out, img, mimeType); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	a.logger.Info("生成画像を保存しました", zap.String("path", out), zap.String("mime_type", mimeType))
	return nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case domain.MimeTypeJPEG:
		return ".jpg"
	case domain.MimeTypeWebP:
		return ".webp"
	}
	return ".png"
}
