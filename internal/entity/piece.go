package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Size is totally ordered: Small < Medium < Large. The zero value is not a valid size.
type Size int

const (
	SizeSmall Size = iota + 1
	SizeMedium
	SizeLarge
)

var ErrInvalidSize = errors.New("invalid piece size")

// Sizes lists every size from the smallest up.
var Sizes = [3]Size{SizeSmall, SizeMedium, SizeLarge}

func ParseSize(raw string) (Size, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "S", "SMALL":
		return SizeSmall, nil
	case "M", "MEDIUM":
		return SizeMedium, nil
	case "L", "LARGE":
		return SizeLarge, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, raw)
	}
}

func (that Size) IsValid() bool {
	return that >= SizeSmall && that <= SizeLarge
}

func (that Size) String() string {
	switch that {
	case SizeSmall:
		return "S"
	case SizeMedium:
		return "M"
	case SizeLarge:
		return "L"
	default:
		return fmt.Sprintf("Size(%d)", int(that))
	}
}

func (that Size) MarshalText() ([]byte, error) {
	if !that.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, int(that))
	}
	return []byte(that.String()), nil
}

func (that *Size) UnmarshalText(text []byte) error {
	size, err := ParseSize(string(text))
	if err != nil {
		return err
	}

	*that = size
	return nil
}

// Piece is an immutable owned token.
type Piece struct {
	Owner Player `json:"owner"`
	Size  Size   `json:"size"`
}

// CanCover - reports whether the piece may be stacked on top of the given one.
func (that Piece) CanCover(top Piece) bool {
	return that.Size > top.Size
}
