package runner

import "google.golang.org/genai"

// systemInstruction はコンテンツパッケージ生成時に毎回送る固定の指示文です。
const systemInstruction = `You are the core engine of an app called POST Tools.
Your job is to generate complete social media content packages based on the user's input.
You must analyze the provided reference image for visual style, colors, and mood.

Follow the specific JSON output structure strictly.`

// requiredFields は応答 JSON のトップレベルに必須のフィールドです。
var requiredFields = []string{"headline", "copy", "cta", "design_guide", "image_prompt", "format_variations"}

func str(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func object(props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: props}
}

// contentPackageSchema は domain.ContentPackage に対応する応答スキーマを返します。
func contentPackageSchema() *genai.Schema {
	schema := object(map[string]*genai.Schema{
		"headline": str("Short, strong and aligned with the niche."),
		"copy": object(map[string]*genai.Schema{
			"full_text": str(""),
			"carousel": object(map[string]*genai.Schema{
				"slide_1":   str("Hook"),
				"slide_2":   str("Value"),
				"slide_3":   str("Value"),
				"slide_4":   str("Value"),
				"slide_5":   str("Value"),
				"cta_slide": str("CTA"),
			}),
			"reels_script": str("Script, captions and timing"),
			"feed_version": str("Single copy with CTA"),
		}),
		"cta": str("Clear, persuasive and aligned with the niche."),
		"design_guide": object(map[string]*genai.Schema{
			"palette":         str("Color palette suggestions"),
			"typography":      str("Typography direction"),
			"layout":          str("Layout structure"),
			"brand_alignment": str("What elements must match the reference logo/image"),
		}),
		"image_prompt": str("Visual, Detailed, Consistent with reference, Adapted to format"),
		"format_variations": object(map[string]*genai.Schema{
			"feed":        str(""),
			"reels_story": str(""),
			"thumbnail":   str(""),
		}),
	})
	schema.Required = append([]string(nil), requiredFields...)
	return schema
}
