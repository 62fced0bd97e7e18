// Package nutrition holds the pure nutrient arithmetic every higher analytics
// layer builds on. Functions here are total: no I/O, no errors, no side effects.
package nutrition

import (
	"github.com/brudallism/macromuse-backend/internal/domain"
)

// Merge returns the key-wise sum of a and b. A key appears in the result only
// when either input has a positive value for it, preserving the sparse
// representation. All sums are rounded to 2 decimal places.
func Merge(a, b domain.NutrientVector) domain.NutrientVector {
	out := make(domain.NutrientVector, len(a)+len(b))
	for k, v := range a {
		if v > 0 {
			out[k] = domain.Round2(v)
		}
	}
	for k, v := range b {
		if v <= 0 {
			continue
		}
		out[k] = domain.Round2(out[k] + v)
	}
	return out
}

// MergeAll folds Merge over any number of vectors.
func MergeAll(vectors ...domain.NutrientVector) domain.NutrientVector {
	out := domain.NutrientVector{}
	for _, v := range vectors {
		out = Merge(out, v)
	}
	return out
}

// Scale multiplies every present key by factor. A non-positive factor yields an
// empty vector; nutrient amounts are never negative.
func Scale(v domain.NutrientVector, factor float64) domain.NutrientVector {
	if factor <= 0 {
		return domain.NutrientVector{}
	}
	out := make(domain.NutrientVector, len(v))
	for k, amt := range v {
		if amt <= 0 {
			continue
		}
		out[k] = domain.Round2(amt * factor)
	}
	return out
}

// Mean divides an accumulated vector by count, for weekly and monthly rollups.
// A non-positive count yields an empty vector.
func Mean(total domain.NutrientVector, count int) domain.NutrientVector {
	if count <= 0 {
		return domain.NutrientVector{}
	}
	out := make(domain.NutrientVector, len(total))
	for k, amt := range total {
		out[k] = domain.Round2(amt / float64(count))
	}
	return out
}
