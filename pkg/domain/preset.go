package domain

import "fmt"

// StylePreset はスタイルライブラリの1項目です。
type StylePreset struct {
	Title  string `json:"title"`
	Prompt string `json:"prompt"`
}

// DefaultPresetIndex は初期状態およびクリア時に適用されるスタイルです。
const DefaultPresetIndex = 0

// StylePresets は組み込みのシーン用プロンプト集です。
var StylePresets = []StylePreset{
	{
		Title:  "Hyper-Realistic (Default)",
		Prompt: "Create a hyper-realistic, premium product photo using my exact product from the uploaded image. Do not change, edit, or distort the product’s original color, material, texture, label, logo, or any design details — they must stay 100% identical and crystal clear. Position the product at a slight diagonal tilt, as if floating above a smooth, slightly reflective surface, inspired by the reference image. Use a strong, warm side light that enhances the natural tones and textures of the product, but make the overall scene slightly brighter and more luminous than the previous version — just enough to bring out elegant highlights and subtle details without losing the dramatic shadows. The light should cast a crisp shadow and a soft, clear reflection on the surface. Keep the background clean, dark, and minimal, but allow a soft warm glow to spread more light into the surrounding space to enhance the atmosphere. The final image must look luxurious, natural, and polished like a high-end magazine shoot, with perfectly sharp details and no changes to the original product.",
	},
	{
		Title:  "Dramatic Light & Editorial Luxury",
		Prompt: "Create a hyper-realistic, luxury product photo of the uploaded item. Keep all colors, textures, and logos exactly the same, without alterations. Place the product on a glossy black surface with soft reflections. Use a single dramatic side light to enhance textures, edges, and fine details. Keep the background minimal and dark, with subtle warm highlights fading into the shadows. The final image should look elegant, cinematic, and premium — like a high-end fashion magazine shot.",
	},
	{
		Title:  "Clean & Minimal",
		Prompt: "Generate a hyper-realistic photo of the uploaded product. Do not alter its original details, colors, or logos. Place it on a smooth, bright surface with subtle reflections. Use soft daylight-style lighting from above and the side to create gentle highlights and natural shadows. Keep the background clean white or light neutral tones for a modern, minimal look. The image should feel fresh, sharp, and premium, highlighting every detail clearly.",
	},
	{
		Title:  "Sophisticated Reflection",
		Prompt: "Produce a realistic, premium photo of the uploaded product. Maintain all original design, colors, and logos with absolute accuracy. Position the product above a glossy reflective surface, capturing a clear mirror-like reflection beneath it. Use warm, directional lighting that enhances the depth, shine, and contours. Keep the background dark and minimal, with just enough glow to separate the product from the background. Final result must look luxurious and bold.",
	},
	{
		Title:  "Soft Natural Light",
		Prompt: "Create a natural-looking, realistic product photo of the uploaded item. Do not modify its colors, textures, or logos. Place it on a matte neutral surface, with soft diffused light from multiple angles. The shadows should be gentle and the highlights subtle, simulating daylight from a window. Keep the background clean and minimal, slightly blurred to keep focus on the product. The result should feel approachable, modern, and elegant.",
	},
	{
		Title:  "Tech & Futuristic",
		Prompt: "Generate a hyper-realistic photo of the uploaded product. Keep every detail accurate — no changes to logos, labels, or colors. Place it on a sleek metallic or glass-like surface with glowing reflections. Use strong, cool-toned side lighting with neon accents (blue or cyan glow) to create a futuristic, high-tech atmosphere. Background should stay minimal, with subtle gradients of light that emphasize innovation and performance.",
	},
	{
		Title:  "Detail Close-up",
		Prompt: "Create a sharp, hyper-realistic close-up photo of the uploaded product. Keep all details — texture, stitching, logos, and material — 100% identical. Use strong side lighting to bring out fine textures and edges. Position the camera close enough to highlight premium craftsmanship and unique design details. Keep the background minimal and blurred, with light softly illuminating the edges. The final image should feel luxurious, tactile, and high-end.",
	},
	{
		Title:  "Water Splash",
		Prompt: "Create a hyper-realistic 4K product photo of the uploaded item. Keep the exact shape, logos, text, and details unchanged. Surround the product with dynamic water splash and droplets, with realistic liquid textures and crisp refractions. Place it above a subtle reflective surface for depth. No studio, no visible camera. Final result: cinematic, sharp, and premium — perfect for beauty or hydration-themed products.",
	},
	{
		Title:  "Colorful Powder Burst",
		Prompt: "Generate a hyper-realistic 4K photo of the uploaded product. Keep all proportions, logos, and surface details exactly as they are. Place the product in front of a burst of colorful powder (like Holi dust), frozen mid-air with fine particles surrounding it. Use bright highlights to make the colors pop against a clean, minimal background. No studio, no props. Final image: bold, modern, and high-impact.",
	},
	{
		Title:  "Smoke & Light",
		Prompt: "Produce a hyper-realistic 4K image of the uploaded item. Keep the shape, logos, and details completely untouched. Add soft smoke swirls and glowing light rays behind the product, giving a mysterious and luxurious vibe. Shadows and highlights should create depth while the background stays dark and minimal. No studio, no visible camera. Final result: cinematic and high-end.",
	},
	{
		Title:  "Golden Particles",
		Prompt: "Create a hyper-realistic 4K product photo of the uploaded item. Preserve every detail, shape, and logo without changes. Surround the product with floating golden dust particles and subtle sparkles, as if glowing in luxury. The background should stay minimal, with warm gradients enhancing elegance. No studio, no props. Final look: premium, polished, and aspirational.",
	},
	{
		Title:  "Fire & Energy",
		Prompt: "Generate a hyper-realistic 4K visual of the uploaded product. Keep the exact product form, colors, and logos intact. Add dynamic fire streaks or sparks swirling around the product, creating a sense of raw power and energy. Place it above a reflective surface with sharp highlights. No studio, no camera setup. The final result: bold, cinematic, and striking.",
	},
	{
		Title:  "Watercolor",
		Prompt: "Create a hyper-realistic 4K photo of the uploaded product. Keep the shape, colors, and logos unchanged. Surround the product with watercolor-style splashes and painted textures, blending soft pastel tones that look artistic and elegant. Background should feel like a luxury illustration, minimal and refined. No studio, no visible camera. The final result: creative, premium, and artistic.",
	},
	{
		Title:  "Galaxy Background",
		Prompt: "Generate a hyper-realistic 4K image of the uploaded item. Do not change the product’s proportions, text, or surface details. Place it floating against a galaxy-inspired background with stars, nebulae, and cosmic gradients. Add subtle glowing reflections to suggest depth and infinity. No studio, no props. Final look: futuristic, dreamy, and powerful.",
	},
	{
		Title:  "Pastel Minimal",
		Prompt: "Produce a hyper-realistic 4K photo of the uploaded product. Keep every detail intact — logos, colors, and textures. Position it on a soft pastel-toned surface (light pink, mint, beige, or baby blue), with smooth lighting and minimal shadows. Background must be clean, airy, and modern. No studio, no visible camera. Final result: fresh, elegant, and Instagram-ready.",
	},
	{
		Title:  "Cyberpunk",
		Prompt: "Create a hyper-realistic 4K render of the uploaded product. Preserve the exact shape, text, and details. Place it in a neon-lit cyberpunk environment, with glowing accents in purple, cyan, and magenta reflecting on the product surface. Background should suggest a futuristic city vibe, blurred and abstract. No studio, no props. Final image: edgy, bold, and high-tech.",
	},
	{
		Title:  "Living Nature",
		Prompt: "Generate a hyper-realistic 4K photo of the uploaded product. Keep all logos, shapes, and colors unchanged. Place it surrounded by natural elements — leaves, flowers, or flowing water — arranged in a minimal and artistic composition. Lighting should be soft, like daylight through trees. No studio, no visible camera. Final look: organic, fresh, and harmonious.",
	},
}

// DefaultStylePrompt は既定スタイルのプロンプト本文です。
func DefaultStylePrompt() string {
	return StylePresets[DefaultPresetIndex].Prompt
}

// PresetAt はインデックスでスタイルを取得します。
func PresetAt(index int) (StylePreset, error) {
	if index < 0 || index >= len(StylePresets) {
		return StylePreset{}, fmt.Errorf("%w: %d", ErrUnknownPreset, index)
	}
	return StylePresets[index], nil
}
