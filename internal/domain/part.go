package domain

// Part is one element of a multi-part generation payload. Exactly two
// concrete kinds exist: ImagePart and TextPart. Keeping the variant closed
// lets the composer and the response parser switch exhaustively instead of
// passing untyped part lists around.
type Part interface {
	isPart()
}

// ImagePart carries inline image bytes.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

// TextPart carries a plain text instruction or model response.
type TextPart struct {
	Text string
}

func (ImagePart) isPart() {}
func (TextPart) isPart()  {}

// FirstImage returns the first image part in parts, or false when the
// payload contains no image at all.
func FirstImage(parts []Part) (ImagePart, bool) {
	for _, p := range parts {
		if img, ok := p.(ImagePart); ok && len(img.Data) > 0 {
			return img, true
		}
	}
	return ImagePart{}, false
}

// JoinText concatenates every text part in order, skipping image parts.
func JoinText(parts []Part) string {
	var out string
	for _, p := range parts {
		if t, ok := p.(TextPart); ok {
			out += t.Text
		}
	}
	return out
}
