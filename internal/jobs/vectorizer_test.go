package jobs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorNorm(vector []float64) float64 {
	var sum float64
	for _, x := range vector {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func TestVectorizer_FitTransform_ProducesUnitVectors(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{})

	vectors, err := v.FitTransform([]string{"python backend", "python data"})

	require.NoError(t, err)
	require.Len(t, vectors, 2)
	for _, vector := range vectors {
		assert.InDelta(t, 1.0, vectorNorm(vector), 1e-9)
	}
	// Unigrams python, backend, data plus one bigram per document.
	assert.Equal(t, 5, v.VocabularySize())
}

func TestVectorizer_Transform_IgnoresUnknownTerms(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{})
	_, err := v.FitTransform([]string{"python backend"})
	require.NoError(t, err)

	vector := v.Transform("java frontend")

	assert.Zero(t, vectorNorm(vector))
}

func TestVectorizer_StopWordsRemovedBeforeBigrams(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{StopWords: []string{"de"}})

	_, err := v.FitTransform([]string{"développeur de données"})

	require.NoError(t, err)
	assert.Equal(t, 3, v.VocabularySize())

	// The stop word does not break the bigram, so both phrasings vectorize
	// identically.
	with := v.Transform("développeur de données")
	without := v.Transform("développeur données")
	assert.InDelta(t, 1.0, CosineSimilarity(with, without), 1e-9)
}

func TestVectorizer_MaxFeaturesKeepsMostFrequentTerms(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{MaxFeatures: 2})

	_, err := v.FitTransform([]string{
		"python python python java",
		"python java rust",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, v.VocabularySize())

	// The rarest unigram fell out of the capped vocabulary.
	assert.Zero(t, vectorNorm(v.Transform("rust")))
	assert.Positive(t, vectorNorm(v.Transform("python")))
}

func TestVectorizer_MaxDocFreqDropsUbiquitousTerms(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{MaxDocFreq: 0.5})

	_, err := v.FitTransform([]string{
		"emploi python",
		"emploi java",
		"emploi data",
	})

	require.NoError(t, err)
	assert.Zero(t, vectorNorm(v.Transform("emploi")))
	assert.Positive(t, vectorNorm(v.Transform("python")))
}

func TestVectorizer_Fit_EmptyVocabulary(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{StopWords: []string{"le", "la"}})

	err := v.Fit([]string{"le la le"})

	assert.ErrorContains(t, err, "empty vocabulary")
}

func TestVectorizer_ShortTokensIgnored(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{})

	_, err := v.FitTransform([]string{"go c r python"})

	require.NoError(t, err)
	// Tokens go and python plus the bigram over the kept sequence.
	assert.Equal(t, 3, v.VocabularySize())
}

func TestVectorizer_LowercasesInput(t *testing.T) {
	v := NewVectorizer(VectorizerConfig{})
	_, err := v.FitTransform([]string{"python développeur"})
	require.NoError(t, err)

	upper := v.Transform("PYTHON DÉVELOPPEUR")
	lower := v.Transform("python développeur")

	assert.InDelta(t, 1.0, CosineSimilarity(upper, lower), 1e-9)
}

func TestCosineSimilarity_IdenticalVectors(t *testing.T) {
	a := []float64{0.3, 0.4, 0.5}

	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}

	assert.Zero(t, CosineSimilarity(a, b))
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{1, 1}

	assert.Zero(t, CosineSimilarity(a, b))
}

func TestCosineSimilarity_LengthMismatch(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float64{1}, []float64{1, 2}))
}
