package catalog

import (
	"math"
	"sort"
)

// CosineSimilarity is 1 - cosine distance. ok is false for mismatched
// lengths or zero vectors.
func CosineSimilarity(a, b []float32) (sim float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}

// topMatches sorts best first (ties by product id), applies threshold and topK.
func topMatches(in []ProductMatch, topK int, threshold float64) []ProductMatch {
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Similarity != in[j].Similarity {
			return in[i].Similarity > in[j].Similarity
		}
		return in[i].Product.ID < in[j].Product.ID
	})
	out := make([]ProductMatch, 0, len(in))
	for _, m := range in {
		if threshold > NoThreshold && m.Similarity < threshold {
			continue
		}
		out = append(out, m)
		if topK > 0 && len(out) == topK {
			break
		}
	}
	return out
}
