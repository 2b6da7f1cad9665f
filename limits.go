package keyset

const (
	MaxPageSize     = 100
	DefaultPageSize = 10

	// DefaultOffsetCutoff bounds the offset a client can smuggle into a
	// cursor token. Deep offsets degrade to a linear scan, which is the
	// exact failure mode keyset pagination exists to avoid.
	DefaultOffsetCutoff = 1000
)

func IsNormalizedPageSizeMax(size int, maxSize int) (int, bool) {
	if size <= 0 {
		return 0, size == 0
	} else if size > maxSize {
		return maxSize, false
	}

	return size, true
}

func NormalizePageSizeMax(size int, maxSize int) int {
	ret, _ := IsNormalizedPageSizeMax(size, maxSize)
	return ret
}

// NormalizePageSize clamps a requested page size into [0, MaxPageSize].
// Zero and negative sizes normalize to 0, which disables pagination.
func NormalizePageSize(size int) int {
	return NormalizePageSizeMax(size, MaxPageSize)
}
