package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/qrforge/qrforge/pkg/errors"
)

// Default module colors, matching the common black-on-white symbol.
var (
	DefaultFill color.Color = color.RGBA{A: 255}
	DefaultBack color.Color = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ParseColor resolves a color string to a concrete color.
//
// Accepted forms:
//   - CSS/SVG named colors, case-insensitive ("black", "RoyalBlue")
//   - hex with leading #: "#rgb" or "#rrggbb"
//
// Anything else returns an INVALID_COLOR error.
func ParseColor(s string) (color.Color, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidColor, "color cannot be empty")
	}

	if strings.HasPrefix(name, "#") {
		c, err := parseHex(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid hex color %q", s)
		}
		return c, nil
	}

	if c, ok := colornames.Map[strings.ToLower(name)]; ok {
		return c, nil
	}

	return nil, errors.New(errors.ErrCodeInvalidColor, "unknown color %q (use a CSS name or #rrggbb)", s)
}

// parseHex parses #rgb and #rrggbb forms via go-colorful. The length check
// comes first: colorful.Hex scans with width-limited verbs and would accept
// truncated strings like "#12345".
func parseHex(s string) (color.Color, error) {
	if len(s) != 4 && len(s) != 7 {
		return nil, fmt.Errorf("hex color must be #rgb or #rrggbb, got %d characters", len(s))
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return nil, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
