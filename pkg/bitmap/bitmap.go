// Package bitmap converts between role index lists and the fixed-width
// bitmasks used by the deployment payload.
package bitmap

import (
	"errors"
	"fmt"
	"math/bits"
)

// Width is the wire width of a permission mask.
const Width = 32

// ErrOutOfRange reports an index outside [0, width).
var ErrOutOfRange = errors.New("bitmap: index out of range")

// IndicesToBitmap folds an index list into a mask with bit i set iff
// i appears in indices. Duplicate indices are harmless.
func IndicesToBitmap(indices []int, width int) (uint32, error) {
	var m uint32
	for _, i := range indices {
		if i < 0 || i >= width {
			return 0, fmt.Errorf("%w: %d (width %d)", ErrOutOfRange, i, width)
		}
		m |= 1 << uint(i)
	}
	return m, nil
}

// BitmapToIndices returns the set bits of the mask in ascending order.
func BitmapToIndices(m uint32, width int) []int {
	out := make([]int, 0, bits.OnesCount32(m))
	for i := 0; i < width && i < Width; i++ {
		if m&(1<<uint(i)) != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Add sets bit i.
func Add(m uint32, i int) uint32 { return m | 1<<uint(i) }

// Remove clears bit i.
func Remove(m uint32, i int) uint32 { return m &^ (1 << uint(i)) }

// Toggle flips bit i.
func Toggle(m uint32, i int) uint32 { return m ^ 1<<uint(i) }

// Contains reports whether bit i is set.
func Contains(m uint32, i int) bool {
	return i >= 0 && i < Width && m&(1<<uint(i)) != 0
}

// CountSet returns the number of set bits.
func CountSet(m uint32) int { return bits.OnesCount32(m) }

// AllSet returns a mask with the low width bits set.
func AllSet(width int) uint32 {
	if width >= Width {
		return ^uint32(0)
	}
	return 1<<uint(width) - 1
}
