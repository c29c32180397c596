package jobs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ybennani/career-match/internal/types"
)

// Feature weights for the combined job text. Titles carry the strongest
// signal, skills come second.
const (
	titleWeight       = 3
	skillsWeight      = 2
	descriptionWeight = 1
)

const (
	// minSimilarity drops matches with near-zero cosine similarity.
	minSimilarity = 0.01
	// titleMatchThreshold is the cosine floor for SemanticMatchTitle.
	titleMatchThreshold = 0.6
	// maxJobFeatures caps the job vocabulary size.
	maxJobFeatures = 1000
	// maxJobDocFreq excludes terms shared by most postings.
	maxJobDocFreq = 0.8
)

// frenchStopWords are high-frequency French function words excluded from the
// job vocabulary.
var frenchStopWords = []string{
	"le", "la", "les", "de", "des", "du", "et", "en", "au", "aux", "à", "dans", "pour",
}

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var whitespacePattern = regexp.MustCompile(`\s+`)

// preprocessText lowercases text, deletes ASCII punctuation and collapses
// whitespace. Accented letters are preserved.
func preprocessText(text string) string {
	text = strings.ToLower(text)
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Match pairs a dataset index with its similarity score.
type Match struct {
	Index int
	Score float64
}

// Matcher ranks jobs against free-text queries using TF-IDF vectors of
// weighted job features. A second model fitted on titles alone backs the
// title matching helpers.
type Matcher struct {
	store           *Store
	vectorizer      *Vectorizer
	jobVectors      [][]float64
	titleVectorizer *Vectorizer
	titleVectors    [][]float64
	titles          []string
}

// NewMatcher fits the TF-IDF models on the store's jobs.
func NewMatcher(store *Store) (*Matcher, error) {
	docs := make([]string, store.Len())
	titles := make([]string, store.Len())
	for i, job := range store.Jobs() {
		docs[i] = combineJobText(job)
		titles[i] = preprocessText(job.JobTitle)
	}

	vectorizer := NewVectorizer(VectorizerConfig{
		MaxFeatures: maxJobFeatures,
		StopWords:   frenchStopWords,
		MaxDocFreq:  maxJobDocFreq,
	})
	jobVectors, err := vectorizer.FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("fitting job vectors: %w", err)
	}

	titleVectorizer := NewVectorizer(VectorizerConfig{})
	titleVectors, err := titleVectorizer.FitTransform(titles)
	if err != nil {
		return nil, fmt.Errorf("fitting title vectors: %w", err)
	}

	return &Matcher{
		store:           store,
		vectorizer:      vectorizer,
		jobVectors:      jobVectors,
		titleVectorizer: titleVectorizer,
		titleVectors:    titleVectors,
		titles:          titles,
	}, nil
}

// Store returns the underlying job dataset.
func (m *Matcher) Store() *Store {
	return m.store
}

// Search returns up to topK jobs matching the query, best first. Matches
// below the similarity floor are dropped, an empty query matches nothing.
func (m *Matcher) Search(query string, topK int) []Match {
	if topK <= 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	queryVector := m.vectorizer.Transform(preprocessText(query))

	matches := make([]Match, 0, len(m.jobVectors))
	for i, jobVector := range m.jobVectors {
		matches = append(matches, Match{Index: i, Score: CosineSimilarity(queryVector, jobVector)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	results := matches[:0]
	for _, match := range matches {
		if match.Score > minSimilarity {
			results = append(results, match)
		}
	}
	return results
}

// HasJobTitle reports whether the preprocessed query appears inside any job
// title of the dataset.
func (m *Matcher) HasJobTitle(query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	processed := preprocessText(query)
	for _, title := range m.titles {
		if strings.Contains(title, processed) {
			return true
		}
	}
	return false
}

// SemanticMatchTitle reports whether the query is close to any job title
// under the TF-IDF model fitted on titles alone.
func (m *Matcher) SemanticMatchTitle(query string) bool {
	if strings.TrimSpace(query) == "" {
		return false
	}
	queryVector := m.titleVectorizer.Transform(preprocessText(query))
	for _, titleVector := range m.titleVectors {
		if CosineSimilarity(queryVector, titleVector) >= titleMatchThreshold {
			return true
		}
	}
	return false
}

// combineJobText builds the weighted feature text for one job: the title
// repeated three times, the skills twice, then description and category.
func combineJobText(job types.Job) string {
	title := repeatText(preprocessText(job.JobTitle), titleWeight)
	skills := repeatText(preprocessText(job.RequiredSkills), skillsWeight)
	description := repeatText(preprocessText(job.Description), descriptionWeight)
	category := preprocessText(job.Category)
	return fmt.Sprintf("%s %s %s %s", title, skills, description, category)
}

func repeatText(text string, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = text
	}
	return strings.Join(parts, " ")
}
