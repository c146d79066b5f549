package content

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	mentionTagPattern = regexp.MustCompile(`[@#][\p{L}\p{N}_]+`)
	hashtagPattern    = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
)

// cleanText lower-cases a caption and strips URLs, mentions and hashtags
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionTagPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// extractHashtags returns the lower-cased #tags of a raw caption
func extractHashtags(caption string) []string {
	return hashtagPattern.FindAllString(strings.ToLower(caption), -1)
}

// countMatches returns how many phrases occur in text
func countMatches(text string, phrases []string) int {
	n := 0
	for _, p := range phrases {
		if strings.Contains(text, p) {
			n++
		}
	}
	return n
}

// wordSet returns the distinct whitespace-separated words of text
func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		set[w] = struct{}{}
	}
	return set
}

// jaccard is |A∩B| / |A∪B| over word sets; two empty texts are identical
func jaccard(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 1.0
	}

	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// countSentences counts terminal punctuation, with a floor of one sentence
func countSentences(text string) int {
	n := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	return max(n, 1)
}

func isASCIIPunct(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsPunct(r) || strings.ContainsRune("$+<=>^`|~", r)
}

// countSyllables estimates syllables by counting vowel groups per word,
// dropping a trailing silent e, with at least one syllable per word
func countSyllables(text string) int {
	total := 0
	for _, word := range strings.Fields(text) {
		word = strings.TrimFunc(strings.ToLower(word), isASCIIPunct)
		if word == "" {
			continue
		}

		syllables := 0
		prevVowel := false
		for _, r := range word {
			if strings.ContainsRune("aeiouy", r) {
				if !prevVowel {
					syllables++
				}
				prevVowel = true
			} else {
				prevVowel = false
			}
		}
		if strings.HasSuffix(word, "e") && syllables > 1 {
			syllables--
		}
		total += max(syllables, 1)
	}
	return total
}
