package studio

import (
	"strings"

	"studio/internal/domain"
)

// StyleAnalysisInstruction is the fixed directive sent with reference images
// to the analysis model.
const StyleAnalysisInstruction = "Describe the technical artistic style of these images for an AI prompt. Focus on lighting, texture, and medium."

const renderSuffix = "Cinematic, high detail, masterpiece."

// GenerationRequest carries one invocation's inputs to the composer. It is
// transient: built per generation, consumed immediately, never stored.
type GenerationRequest struct {
	PromptText   string
	StyleContext string
	AspectRatio  domain.AspectRatio
	EditBase     *domain.ImagePart
}

// ComposeGeneration builds the synthesis instruction for a fresh render.
// An empty style context drops the style clause entirely rather than
// interpolating a dangling "context: ." fragment.
func ComposeGeneration(promptText, styleContext string) string {
	prompt := strings.TrimSpace(promptText)
	style := strings.TrimSpace(styleContext)

	var b strings.Builder
	if prompt != "" {
		b.WriteString(prompt)
		b.WriteString(". ")
	}
	if style != "" {
		b.WriteString("Technical style context: ")
		b.WriteString(style)
		b.WriteString(". ")
	}
	b.WriteString(renderSuffix)
	return b.String()
}

// ComposeEdit frames a modification instruction against the provided base
// image.
func ComposeEdit(instruction string) string {
	return "Apply this change to the provided image: " + strings.TrimSpace(instruction)
}

// BuildParts assembles the ordered payload for the image model. Image parts
// always precede the trailing text instruction; the model only reliably
// honors instructions that terminate the part sequence.
func BuildParts(req GenerationRequest) []domain.Part {
	if req.EditBase != nil {
		return []domain.Part{
			*req.EditBase,
			domain.TextPart{Text: ComposeEdit(req.PromptText)},
		}
	}
	return []domain.Part{
		domain.TextPart{Text: ComposeGeneration(req.PromptText, req.StyleContext)},
	}
}
