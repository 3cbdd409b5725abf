package embedding

import (
	"context"
	"crypto/md5"
)

// Hash derives a deterministic pseudo-vector from the MD5 digest of the text.
// Only identical texts end up close to each other.
type Hash struct {
	dim int
}

func NewHash(dim int) *Hash {
	return &Hash{dim: dim}
}

func (h *Hash) Embed(_ context.Context, text string) ([]float32, error) {
	return HashVector(text, h.dim), nil
}

// HashVector cycles the 16 digest bytes over dim positions, scaled to [0, 1].
// dim <= 0 yields nil.
func HashVector(text string, dim int) []float32 {
	if dim <= 0 {
		return nil
	}
	sum := md5.Sum([]byte(text))
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(sum[i%len(sum)]) / 255
	}
	return vec
}
