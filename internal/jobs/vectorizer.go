package jobs

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of at least two word characters, accented
// letters and digits included. Shorter tokens carry no signal.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_]+`)

// VectorizerConfig controls how the vocabulary is built. Terms are unigrams
// and bigrams of word tokens. MaxFeatures caps the vocabulary to the most
// frequent terms across the corpus; zero means unlimited. MaxDocFreq drops
// terms that appear in more than that fraction of documents; zero disables
// the filter.
type VectorizerConfig struct {
	MaxFeatures int
	StopWords   []string
	MaxDocFreq  float64
}

// Vectorizer converts documents into L2-normalized TF-IDF vectors.
type Vectorizer struct {
	config    VectorizerConfig
	stopWords map[string]bool
	terms     []string
	index     map[string]int
	idf       []float64
}

// NewVectorizer returns an unfitted vectorizer with the given configuration.
func NewVectorizer(config VectorizerConfig) *Vectorizer {
	stopWords := make(map[string]bool, len(config.StopWords))
	for _, word := range config.StopWords {
		stopWords[word] = true
	}
	return &Vectorizer{config: config, stopWords: stopWords}
}

// Fit builds the vocabulary and inverse document frequencies from the corpus.
func (v *Vectorizer) Fit(docs []string) error {
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)
	for _, doc := range docs {
		for term, count := range termCounts(v.extractTerms(doc)) {
			docFreq[term]++
			corpusFreq[term] += count
		}
	}

	var candidates []string
	for term, df := range docFreq {
		if v.config.MaxDocFreq > 0 && float64(df) > v.config.MaxDocFreq*float64(len(docs)) {
			continue
		}
		candidates = append(candidates, term)
	}
	if len(candidates) == 0 {
		return errors.New("empty vocabulary: documents contain only stop words or short tokens")
	}

	if v.config.MaxFeatures > 0 && len(candidates) > v.config.MaxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			if corpusFreq[candidates[i]] != corpusFreq[candidates[j]] {
				return corpusFreq[candidates[i]] > corpusFreq[candidates[j]]
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:v.config.MaxFeatures]
	}
	sort.Strings(candidates)

	v.terms = candidates
	v.index = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	n := float64(len(docs))
	for i, term := range candidates {
		v.index[term] = i
		v.idf[i] = math.Log((1+n)/float64(1+docFreq[term])) + 1
	}
	return nil
}

// Transform returns the L2-normalized TF-IDF vector of a document. Terms
// outside the fitted vocabulary are ignored.
func (v *Vectorizer) Transform(doc string) []float64 {
	vector := make([]float64, len(v.terms))
	for term, count := range termCounts(v.extractTerms(doc)) {
		if i, ok := v.index[term]; ok {
			vector[i] = float64(count) * v.idf[i]
		}
	}
	normalizeVector(vector)
	return vector
}

// FitTransform fits the vocabulary on the corpus and returns its vectors.
func (v *Vectorizer) FitTransform(docs []string) ([][]float64, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = v.Transform(doc)
	}
	return vectors, nil
}

// VocabularySize returns the number of fitted terms.
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// extractTerms lowercases the document and returns its unigrams and bigrams.
// Stop words are removed before bigrams are formed.
func (v *Vectorizer) extractTerms(doc string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(doc), -1)
	if len(v.stopWords) > 0 {
		kept := tokens[:0]
		for _, token := range tokens {
			if !v.stopWords[token] {
				kept = append(kept, token)
			}
		}
		tokens = kept
	}
	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, term := range terms {
		counts[term]++
	}
	return counts
}

func normalizeVector(vector []float64) {
	var sum float64
	for _, x := range vector {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] /= norm
	}
}

// CosineSimilarity returns the cosine of the angle between two vectors, or
// zero when either vector is zero.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
