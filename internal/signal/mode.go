package signal

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects the output region of a correlation or convolution.
type Mode int

// Boundary modes.
const (
	Valid Mode = iota
	Full
	Same
)

// String returns the scipy name of the mode.
func (m Mode) String() string {
	switch m {
	case Valid:
		return "valid"
	case Full:
		return "full"
	case Same:
		return "same"
	default:
		return "unknown"
	}
}

// ParseMode maps "valid", "full" or "same" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "valid":
		return Valid, nil
	case "full":
		return Full, nil
	case "same":
		return Same, nil
	default:
		return 0, errors.Wrapf(ErrInvalidMode, "%q", s)
	}
}

// OutputShape returns the output dimensions of a 2D correlation of an
// (h, w) input with a (kh, kw) kernel.
func OutputShape(h, w, kh, kw int, mode Mode) (rows, cols int, err error) {
	if h <= 0 || w <= 0 || kh <= 0 || kw <= 0 {
		return 0, 0, errors.Wrapf(ErrEmpty, "input %dx%d, kernel %dx%d", h, w, kh, kw)
	}
	switch mode {
	case Valid:
		if kh > h || kw > w {
			return 0, 0, errors.Wrapf(ErrShapeMismatch,
				"valid mode: kernel %dx%d does not fit input %dx%d", kh, kw, h, w)
		}
		return h - kh + 1, w - kw + 1, nil
	case Full:
		return h + kh - 1, w + kw - 1, nil
	case Same:
		return h, w, nil
	default:
		return 0, 0, errors.Wrapf(ErrInvalidMode, "mode %d", int(mode))
	}
}

// origin returns the offset of the mode's output window inside the full output.
func origin(kh, kw int, mode Mode) (int, int) {
	switch mode {
	case Valid:
		return kh - 1, kw - 1
	case Same:
		return (kh - 1) / 2, (kw - 1) / 2
	default:
		return 0, 0
	}
}
