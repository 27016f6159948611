package domain

import (
	"fmt"
	"strings"
)

// AspectRatio identifies one of the output frames supported by the image
// model.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "3:4"
	AspectWide      AspectRatio = "16:9"
	AspectStory     AspectRatio = "9:16"
	DefaultAspectRatio          = AspectSquare
)

// AspectRatios lists the supported frames in display order.
func AspectRatios() []AspectRatio {
	return []AspectRatio{AspectSquare, AspectPortrait, AspectWide, AspectStory}
}

// ParseAspectRatio validates a user-supplied ratio identifier.
func ParseAspectRatio(id string) (AspectRatio, error) {
	ratio := AspectRatio(strings.TrimSpace(id))
	for _, known := range AspectRatios() {
		if ratio == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported aspect ratio %q", ErrEmptyInput, id)
}

// String implements fmt.Stringer.
func (a AspectRatio) String() string {
	return string(a)
}
