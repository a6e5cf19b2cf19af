package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/qrforge/qrforge/pkg/urlutil"
)

// outputTimestamp is the layout for timestamps embedded in default output
// names, e.g. qr_example-com_20260825_143201.png.
const outputTimestamp = "20060102_150405"

// defaultOutputName derives an output file name from the payload: the
// sanitized host of a URL payload, or a generic name for anything else.
func defaultOutputName(data string, now time.Time) string {
	host := urlutil.Host(data)
	if host == "" {
		return fmt.Sprintf("qr_code_%s.png", now.Format(outputTimestamp))
	}
	return fmt.Sprintf("qr_%s_%s.png", urlutil.SanitizeFilename(host), now.Format(outputTimestamp))
}

// ensurePNGExt forces a .png extension, replacing any other one so the
// written bytes and the name agree on the format.
func ensurePNGExt(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".png") {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".png"
}
