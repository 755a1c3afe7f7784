package cache

const (
	// MaxTextRunes caps submitted page text.
	MaxTextRunes = 50000
	// FingerprintRunes is how much of the normalized text takes part in the key.
	FingerprintRunes = 200
)

// NormalizeText truncates text to MaxTextRunes characters.
func NormalizeText(text string) string {
	return truncateRunes(text, MaxTextRunes)
}

// Fingerprint derives the cache key from the first 200 characters of the
// normalized text and the page URL. Texts that only differ past that prefix
// share an entry.
func Fingerprint(normalized, pageURL string) string {
	return truncateRunes(normalized, FingerprintRunes) + "|" + pageURL
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
