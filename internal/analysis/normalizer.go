// Package analysis compares CVs against job descriptions: skill extraction
// and matching, blended match scores, skill gap reports and ATS
// recommendations.
package analysis

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// accentStripper decomposes accented letters and drops the combining
	// marks, so "é" becomes "e".
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases text, strips accents and punctuation and
// collapses whitespace.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(accentStripper, text); err == nil {
		text = stripped
	}
	text = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, text)
	text = nonWordPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

type synonymPair struct {
	variant  string
	standard string
}

// synonymPairs maps skill name variants to a standard form. Order matters
// for partial matches: the first variant containing the input wins.
var synonymPairs = []synonymPair{
	{"sql server", "sql"},
	{"mssql", "sql"},
	{"mysql", "sql"},
	{"postgresql", "sql"},
	{"postgres", "sql"},
	{"oracle sql", "sql"},
	{"sqlite", "sql"},
	{"tsql", "sql"},
	{"plsql", "sql"},
	{"pytorch", "pytorch"},
	{"torch", "pytorch"},
	{"pytorch framework", "pytorch"},
	{"tensorflow", "tensorflow"},
	{"tf", "tensorflow"},
	{"tensor flow", "tensorflow"},
	{"ann", "deep learning"},
	{"artificial neural network", "deep learning"},
	{"neural network", "deep learning"},
	{"neural networks", "deep learning"},
	{"neural net", "deep learning"},
	{"dnn", "deep learning"},
	{"deep neural network", "deep learning"},
	{"cnn", "deep learning"},
	{"convolutional neural network", "deep learning"},
	{"rnn", "deep learning"},
	{"recurrent neural network", "deep learning"},
	{"lstm", "deep learning"},
	{"long short term memory", "deep learning"},
	{"ml", "machine learning"},
	{"machine learning", "machine learning"},
	{"statistical learning", "machine learning"},
	{"predictive modeling", "machine learning"},
	{"artificial intelligence", "ai"},
	{"ai", "ai"},
	{"artificial intel", "ai"},
	{"data science", "data science"},
	{"data scientist", "data science"},
	{"data analytics", "data science"},
	{"data analysis", "data science"},
	{"big data", "data science"},
	{"js", "javascript"},
	{"javascript", "javascript"},
	{"ecmascript", "javascript"},
	{"es6", "javascript"},
	{"es2015", "javascript"},
	{"nodejs", "node.js"},
	{"node", "node.js"},
	{"node js", "node.js"},
	{"reactjs", "react"},
	{"react.js", "react"},
	{"react js", "react"},
	{"vuejs", "vue"},
	{"vue.js", "vue"},
	{"vue js", "vue"},
	{"angularjs", "angular"},
	{"angular.js", "angular"},
	{"angular js", "angular"},
	{"ts", "typescript"},
	{"typescript", "typescript"},
	{"py", "python"},
	{"python3", "python"},
	{"python 3", "python"},
	{"java", "java"},
	{"java se", "java"},
	{"java ee", "java"},
	{"j2ee", "java"},
	{"docker", "docker"},
	{"docker container", "docker"},
	{"containerization", "docker"},
	{"k8s", "kubernetes"},
	{"kubernetes", "kubernetes"},
	{"kube", "kubernetes"},
	{"amazon web services", "aws"},
	{"amazon aws", "aws"},
	{"aws cloud", "aws"},
	{"git", "git"},
	{"git version control", "git"},
	{"github", "git"},
	{"gitlab", "git"},
	{"rest", "rest api"},
	{"restful", "rest api"},
	{"rest api", "rest api"},
	{"restful api", "rest api"},
	{"api", "rest api"},
	{"html5", "html"},
	{"html", "html"},
	{"css3", "css"},
	{"css", "css"},
	{"mongo", "mongodb"},
	{"mongodb", "mongodb"},
	{"mongo db", "mongodb"},
	{"redis", "redis"},
	{"redis cache", "redis"},
	{"natural language processing", "nlp"},
	{"nlp", "nlp"},
	{"text processing", "nlp"},
	{"front end", "frontend"},
	{"front-end", "frontend"},
	{"back end", "backend"},
	{"back-end", "backend"},
	{"full stack", "fullstack"},
	{"full-stack", "fullstack"},
	{"fullstack", "fullstack"},
}

// SynonymMapper resolves skill name variants to a standard form.
type SynonymMapper struct {
	exact map[string]string
}

// NewSynonymMapper builds the mapper from the variant table.
func NewSynonymMapper() *SynonymMapper {
	exact := make(map[string]string, len(synonymPairs))
	for _, pair := range synonymPairs {
		exact[pair.variant] = pair.standard
	}
	return &SynonymMapper{exact: exact}
}

// NormalizeSkill maps a skill name to its standard form. Unknown skills come
// back normalized but otherwise unchanged.
func (m *SynonymMapper) NormalizeSkill(skill string) string {
	normalized := NormalizeText(skill)
	if normalized == "" {
		return ""
	}
	if standard, ok := m.exact[normalized]; ok {
		return standard
	}
	for _, pair := range synonymPairs {
		if strings.Contains(pair.variant, normalized) {
			return pair.standard
		}
	}
	return normalized
}

// stemSuffixes are stripped in order by the lightweight stemmer.
var stemSuffixes = []string{"ing", "ed", "er", "est", "ly", "tion", "sion", "s"}

func simpleStem(word string) string {
	lower := strings.ToLower(word)
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix)+2 {
			return lower[:len(lower)-len(suffix)]
		}
	}
	return lower
}

// tokenizeAndStem normalizes text and returns the stemmed tokens longer than
// two characters.
func tokenizeAndStem(text string) []string {
	var tokens []string
	for _, token := range strings.Fields(NormalizeText(text)) {
		if len(token) > 2 {
			tokens = append(tokens, simpleStem(token))
		}
	}
	return tokens
}

// SkillMatcher decides whether two skill names refer to the same skill.
type SkillMatcher struct {
	mapper *SynonymMapper
}

// NewSkillMatcher returns a matcher backed by the synonym table.
func NewSkillMatcher() *SkillMatcher {
	return &SkillMatcher{mapper: NewSynonymMapper()}
}

// Mapper exposes the underlying synonym mapper.
func (s *SkillMatcher) Mapper() *SynonymMapper {
	return s.mapper
}

// Match reports whether two skill names refer to the same skill. It tries
// normalized equality, synonym mapping, stemmed token overlap and substring
// containment, in that order.
func (s *SkillMatcher) Match(skill1, skill2 string) bool {
	norm1 := NormalizeText(skill1)
	norm2 := NormalizeText(skill2)
	if norm1 == norm2 {
		return true
	}

	if s.mapper.NormalizeSkill(skill1) == s.mapper.NormalizeSkill(skill2) {
		return true
	}

	tokens1 := stringSet(tokenizeAndStem(skill1))
	tokens2 := stringSet(tokenizeAndStem(skill2))
	if len(tokens1) > 0 && len(tokens2) > 0 {
		overlap := 0
		union := len(tokens2)
		for token := range tokens1 {
			if tokens2[token] {
				overlap++
			} else {
				union++
			}
		}
		if float64(overlap)/float64(union) > 0.5 {
			return true
		}
	}

	// One name containing the other counts only when the lengths clearly
	// differ, to avoid near-duplicate false positives.
	if strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1) {
		diff := len(norm1) - len(norm2)
		if diff < 0 {
			diff = -diff
		}
		if diff > 2 {
			return true
		}
	}

	return false
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}
