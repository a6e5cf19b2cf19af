// Package verify decodes rendered QR images back to their text.
//
// Verification is a separate, opt-in operation: the pipeline never reads its
// own output, and the logo size clamp stays a heuristic rather than a
// checked guarantee. This package exists so callers can confirm a styled or
// logo-bearing image still scans.
package verify

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/qrforge/qrforge/pkg/errors"
)

// minDecodeSide bounds the downscale retries. Below roughly one pixel per
// module there is nothing left to sample.
const minDecodeSide = 32

// Decode reads the QR symbol in img and returns its text payload.
// An image without a readable symbol returns a DECODE_ERROR.
//
// Styled renders draw isolated per-module shapes (dots, gapped squares,
// capped bars) whose light slivers can defeat the module sampler at full
// resolution. On failure the image is retried at progressively smaller
// sizes with a box filter, which averages each module cell toward a solid
// square the sampler reads cleanly.
func Decode(img image.Image) (string, error) {
	text, firstErr := decodeOnce(img)
	if firstErr == nil {
		return text, nil
	}

	for side := img.Bounds().Dx() / 2; side >= minDecodeSide; side /= 2 {
		small := imaging.Resize(img, side, 0, imaging.Box)
		if text, err := decodeOnce(small); err == nil {
			return text, nil
		}
	}

	return "", errors.Wrap(errors.ErrCodeDecode, firstErr, "no QR code found in image")
}

// decodeOnce runs a single gozxing pass over the image as-is.
func decodeOnce(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}

// DecodeFile opens an image file (PNG or JPEG) and decodes its QR symbol.
func DecodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDecode, err, "decode image %s", path)
	}

	return Decode(img)
}
