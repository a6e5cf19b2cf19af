// Package qr wraps the QR symbol encoder behind a small matrix type.
//
// Encoding (version selection, error-correction coding, masking) is delegated
// entirely to github.com/skip2/go-qrcode. This package treats the encoder as
// a black box that accepts a payload and returns a square boolean module
// matrix. The error-correction level is fixed at medium and the symbol
// version is auto-selected: the smallest version that fits the payload.
//
// The returned matrix excludes the quiet zone. The renderer owns the border,
// so the encoder's built-in one is disabled to keep the border width under
// caller control.
package qr

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/qrforge/qrforge/pkg/errors"
)

// recoveryLevel is the fixed error-correction level for all symbols.
// Medium (~15% recovery) balances density against the logo overlay's
// information loss in the symbol center.
const recoveryLevel = qrcode.Medium

// MinSide is the side length of the smallest QR symbol (version 1).
const MinSide = 21

// Matrix is a square, ordered grid of QR modules. true marks a dark module.
// A Matrix is immutable once produced; callers must not modify it.
type Matrix [][]bool

// Side returns the module count along one edge.
func (m Matrix) Side() int {
	return len(m)
}

// Dark reports whether the module at column x, row y is dark.
// Out-of-range coordinates are light, which lets renderers probe
// neighbor cells without bounds checks.
func (m Matrix) Dark(x, y int) bool {
	if y < 0 || y >= len(m) || x < 0 || x >= len(m[y]) {
		return false
	}
	return m[y][x]
}

// Symbol is an encoded QR symbol: the module matrix plus encoder metadata.
type Symbol struct {
	// Matrix is the module grid without quiet zone, side = 4*Version + 17.
	Matrix Matrix

	// Version is the auto-selected symbol version (1..40).
	Version int
}

// Encode produces the QR symbol for data at medium error correction with
// automatic version selection.
//
// Errors are distinguishable by code: a payload that exceeds the capacity of
// the largest version returns ErrCodeDataTooLarge; any other encoder failure
// returns ErrCodeEncode. No partial symbol is ever returned.
func Encode(data string) (*Symbol, error) {
	code, err := qrcode.New(data, recoveryLevel)
	if err != nil {
		if strings.Contains(err.Error(), "too long") {
			return nil, errors.Wrap(errors.ErrCodeDataTooLarge, err,
				"data exceeds maximum QR capacity at medium error correction (%d bytes)", len(data))
		}
		return nil, errors.Wrap(errors.ErrCodeEncode, err, "encode QR symbol")
	}

	code.DisableBorder = true
	return &Symbol{
		Matrix:  Matrix(code.Bitmap()),
		Version: code.VersionNumber,
	}, nil
}
