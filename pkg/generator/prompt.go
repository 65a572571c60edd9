package generator

import (
	"fmt"
	"strings"
)

// DefaultScenePrompt はプロンプトが空の場合に使う汎用のスタジオシーン指示です。
const DefaultScenePrompt = "Place this product in a premium studio setting with a professional, high-quality look that matches the product."

// ResolvePrompt は空白のみのプロンプトを既定の指示に置き換えます。
func ResolvePrompt(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return DefaultScenePrompt
	}
	return prompt
}

// BuildInstruction はモデルへ渡すテキスト指示を組み立てます。
// ガイド画像がある場合は2枚目を形状の参照として扱わせ、
// ない場合はアスペクト比を厳守事項としてテキストで明示します。
func BuildInstruction(prompt, aspectRatio string, withGuide bool) string {
	scene := ResolvePrompt(prompt)
	if withGuide {
		return fmt.Sprintf(
			"The second image is an aspect-ratio guide. Use it strictly as a shape reference and do not reproduce its content. "+
				"Generate the final image with EXACTLY the same aspect ratio as the second image. "+
				"Place the product from the first image in the scene and generate a background based on this description: %s. "+
				"Required final aspect ratio: %s.",
			scene, aspectRatio,
		)
	}
	return fmt.Sprintf(
		"CRITICAL INSTRUCTION: The output image MUST have a strict aspect ratio of %s. Do NOT ignore this rule.\n\nScene description: %s",
		aspectRatio, scene,
	)
}
