// Package similarity computes normalized distances between two texts
// across the fixed measurement catalog (C7).
package similarity

import (
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/mrshoenel/git-density/pkg/models"
	"github.com/xrash/smetrics"
)

// Measure computes a single distance in [0,1] between a (added-lines
// text) and b (deleted-lines text). Both empty yields 0; exactly one
// empty yields 1, per §4.7's empty-side rule; otherwise every measure is
// deterministic over its inputs.
func Measure(mt models.MeasurementType, a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	if a == "" || b == "" {
		return 1
	}

	if mt.Family.IsShingled() {
		return shingleDistance(mt, a, b)
	}

	switch mt.Family {
	case models.NormalizedLevenshtein:
		return normalizedLevenshtein(a, b)
	case models.JaroWinkler:
		return 1 - smetrics.JaroWinkler(a, b, 0.7, 4)
	case models.MetricLongestCommonSubsequence:
		return metricLCS(a, b)
	default:
		return 0
	}
}

func normalizedLevenshtein(a, b string) float64 {
	dist := smetrics.WagnerFischer(a, b, 1, 1, 1)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	return float64(dist) / float64(maxLen)
}

// metricLCS derives a metric distance from the longest common subsequence
// length: 1 - 2*|LCS| / (|a| + |b|). Hand-rolled rather than imported: no
// library in the available dependency set exposes a bare LCS-length
// primitive (smetrics covers edit-distance and Jaro family only).
func metricLCS(a, b string) float64 {
	n := lcsLength(a, b)
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 1 - float64(2*n)/float64(total)
}

func lcsLength(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// shingleDistance builds the n-shingle sets of a and b as roaring bitmaps
// of xxhash-truncated shingle hashes, then derives the requested family's
// distance from set cardinalities.
func shingleDistance(mt models.MeasurementType, a, b string) float64 {
	setA := shingleSet(a, mt.ShingleSize)
	setB := shingleSet(b, mt.ShingleSize)

	if setA.IsEmpty() && setB.IsEmpty() {
		return 0
	}

	intersection := roaring.And(setA, setB).GetCardinality()
	cardA, cardB := setA.GetCardinality(), setB.GetCardinality()

	switch mt.Family {
	case models.Jaccard:
		union := roaring.Or(setA, setB).GetCardinality()
		if union == 0 {
			return 0
		}
		return 1 - float64(intersection)/float64(union)
	case models.SorensenDice:
		sum := cardA + cardB
		if sum == 0 {
			return 0
		}
		return 1 - 2*float64(intersection)/float64(sum)
	case models.Cosine:
		denom := math.Sqrt(float64(cardA) * float64(cardB))
		if denom == 0 {
			return 0
		}
		return 1 - float64(intersection)/denom
	case models.NGram:
		maxCard := cardA
		if cardB > maxCard {
			maxCard = cardB
		}
		if maxCard == 0 {
			return 0
		}
		return 1 - float64(intersection)/float64(maxCard)
	default:
		return 0
	}
}

// shingleSet hashes every contiguous run of n runes in s into a roaring
// bitmap. Strings shorter than n produce a single shingle of the whole
// string, so short texts still compare meaningfully.
func shingleSet(s string, n int) *roaring.Bitmap {
	bm := roaring.New()
	runes := []rune(s)
	if len(runes) == 0 {
		return bm
	}
	if len(runes) < n {
		bm.Add(hash32(s))
		return bm
	}
	var sb strings.Builder
	for i := 0; i+n <= len(runes); i++ {
		sb.Reset()
		sb.WriteString(string(runes[i : i+n]))
		bm.Add(hash32(sb.String()))
	}
	return bm
}

func hash32(s string) uint32 {
	h := xxhash.Sum64String(s)
	return uint32(h ^ (h >> 32))
}

// Catalog computes a SimilarityRecord for every enabled measurement type
// in types, plus the implicit None record.
func Catalog(types []models.MeasurementType, a, b string) []models.SimilarityRecord {
	out := make([]models.SimilarityRecord, 0, len(types)+1)
	out = append(out, models.SimilarityRecord{Measurement: models.NoneType, Distance: 0})
	for _, mt := range types {
		out = append(out, models.SimilarityRecord{Measurement: mt, Distance: Measure(mt, a, b)})
	}
	return out
}
