package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerationResult is one finished render. Results are immutable once
// created; edits produce new results rather than overwriting old ones.
type GenerationResult struct {
	ID               string
	ImageBytes       []byte
	MIMEType         string
	SourcePromptText string
	AspectRatio      AspectRatio
	CreatedAt        time.Time
}

// NewGenerationResult wraps freshly synthesized image bytes with a unique id
// and creation timestamp.
func NewGenerationResult(img ImagePart, sourcePrompt string, aspect AspectRatio) GenerationResult {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return GenerationResult{
		ID:               uuid.NewString(),
		ImageBytes:       img.Data,
		MIMEType:         mime,
		SourcePromptText: sourcePrompt,
		AspectRatio:      aspect,
		CreatedAt:        time.Now().UTC(),
	}
}
