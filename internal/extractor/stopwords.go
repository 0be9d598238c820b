package extractor

// stopwords are compared against the lowercased token. Russian entries cover
// the three-letter function words that would otherwise pass the length check.
var stopwords = map[string]struct{}{
	"and": {}, "or": {}, "but": {}, "the": {}, "a": {}, "an": {}, "of": {},
	"in": {}, "on": {}, "for": {}, "to": {}, "with": {},
	"что": {}, "как": {}, "это": {}, "или": {}, "для": {},
	"при": {}, "про": {}, "без": {}, "под": {}, "над": {},
}

func isStopword(lower string) bool {
	_, ok := stopwords[lower]
	return ok
}
