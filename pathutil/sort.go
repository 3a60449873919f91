package pathutil

import (
	"regexp"
	"sort"
	"strconv"
)

// numberRE matches signed decimal numbers, with optional fraction and
// exponent, inside a string.
var numberRE = regexp.MustCompile(`[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`)

// NaturalSort returns the strings sorted with embedded numbers compared by
// value, so "step2" sorts before "step10". The input slice is not modified.
func NaturalSort(items []string, reverse bool) []string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if reverse {
			i, j = j, i
		}
		return naturalLess(sorted[i], sorted[j])
	})
	return sorted
}

// naturalLess compares two strings chunk-wise, numerically where both chunks
// are numbers.
func naturalLess(a, b string) bool {
	aKeys := splitKeys(a)
	bKeys := splitKeys(b)
	for i := 0; i < len(aKeys) && i < len(bKeys); i++ {
		if aKeys[i] == bKeys[i] {
			continue
		}
		aNum, aErr := strconv.ParseFloat(aKeys[i], 64)
		bNum, bErr := strconv.ParseFloat(bKeys[i], 64)
		if aErr == nil && bErr == nil {
			if aNum != bNum {
				return aNum < bNum
			}
			continue
		}
		// Numbers sort before plain text, like they do lexically for digits.
		if aErr == nil {
			return true
		}
		if bErr == nil {
			return false
		}
		return aKeys[i] < bKeys[i]
	}
	return len(aKeys) < len(bKeys)
}

// splitKeys cuts a string into alternating text and number chunks.
func splitKeys(s string) []string {
	var keys []string
	last := 0
	for _, loc := range numberRE.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			keys = append(keys, s[last:loc[0]])
		}
		keys = append(keys, s[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(s) {
		keys = append(keys, s[last:])
	}
	return keys
}
