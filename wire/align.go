package wire

import "fmt"

// AlignOffset returns offset rounded up to the next multiple of alignment.
// Aligned offsets are returned unchanged. Alignment must be 4, 8 or 16.
func AlignOffset(offset, alignment int) int {
	switch alignment {
	case 4, 8, 16:
	default:
		panic(fmt.Sprintf("wire: unsupported alignment %d", alignment))
	}
	return (offset + alignment - 1) &^ (alignment - 1)
}

// Padding returns the number of bytes AlignOffset would add.
func Padding(offset, alignment int) int {
	return AlignOffset(offset, alignment) - offset
}
