package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/veraarmas/telar/internal/util/sets"
)

// SimilarityThreshold is the minimum normalized similarity ratio for a media
// file to be offered as a "did you mean" suggestion. Matches must be
// strictly above the threshold.
const SimilarityThreshold = 0.85

// imageExtensions are the media file types considered when scanning for
// near-match filenames.
var imageExtensions = sets.New(".jpg", ".jpeg", ".png", ".gif", ".webp", ".tif", ".tiff")

// SimilarFiles scans mediaDir for image filenames that nearly match id.
// Comparison normalizes both sides by removing hyphens, underscores, and
// spaces and lowercasing, so "my-object" suggests "my_object.jpg". Exact
// (case-insensitive) matches are skipped; those are handled by the direct
// lookup path.
func SimilarFiles(mediaDir, id string) []string {
	entries, err := os.ReadDir(mediaDir)
	if err != nil {
		return nil
	}

	normalizedID := normalizeForMatch(id)
	var similar []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !imageExtensions.Has(strings.ToLower(filepath.Ext(name))) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if strings.EqualFold(stem, id) {
			continue
		}
		if Similarity(normalizedID, normalizeForMatch(stem)) > SimilarityThreshold {
			similar = append(similar, name)
		}
	}
	return similar
}

// Similarity returns a ratio in [0,1] between two strings: twice the length
// of their longest common subsequence over the total length. Identical
// strings score 1, disjoint strings 0.
func Similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lcs := longestCommonSubsequence(a, b)
	return 2 * float64(lcs) / float64(len(a)+len(b))
}

func longestCommonSubsequence(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, s)
}
