package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ybennani/career-match/internal/courses"
	"github.com/ybennani/career-match/internal/jobs"
)

// technicalSkills are the skill names recognized in CV and job text.
var technicalSkills = []string{
	// Languages
	"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "swift", "kotlin", "typescript",
	// Frontend
	"react", "angular", "vue", "svelte", "html", "css", "sass", "bootstrap", "tailwind", "jquery",
	// Backend
	"node.js", "django", "flask", "spring", "laravel", "express", "fastapi", "ruby on rails",
	// Databases
	"sql", "mysql", "postgresql", "mongodb", "redis", "oracle", "sqlite",
	// Cloud and DevOps
	"aws", "azure", "google cloud", "docker", "kubernetes", "jenkins", "terraform",
	// Data science
	"machine learning", "deep learning", "data science", "ai", "nlp", "tensorflow", "pytorch",
	// Mobile
	"react native", "flutter", "android", "ios",
	// Tools
	"git", "github", "gitlab", "jira", "figma", "photoshop",
}

// domainKeywords group related skills for widening job description matches
// when few skills are mentioned directly.
var domainKeywords = []struct {
	domain   string
	keywords []string
}{
	{"data_science", []string{"python", "sql", "machine learning", "data analysis", "pandas", "numpy", "tensorflow", "pytorch", "data science"}},
	{"web_development", []string{"javascript", "react", "html", "css", "node.js", "typescript", "vue", "angular", "frontend", "backend"}},
	{"mobile", []string{"android", "ios", "flutter", "react native", "kotlin", "swift", "mobile"}},
	{"cloud_devops", []string{"aws", "azure", "docker", "kubernetes", "jenkins", "terraform", "cloud", "devops"}},
	{"backend", []string{"java", "spring", "python", "django", "flask", "sql", "mongodb", "api", "rest"}},
}

// requirementPatterns capture the skill word in common French requirement
// phrasings.
var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`expérience en ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`connaissance en ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`maîtrise de ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`compétences en ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`savoir ([\p{L}\p{N}_]+)`),
	regexp.MustCompile(`expérience avec ([\p{L}\p{N}_]+)`),
}

// importantSkills weigh more heavily in the skills-based match score.
var importantSkills = []string{"python", "javascript", "java", "sql", "react", "aws", "docker", "machine learning"}

// frenchStopWords are excluded from the full-text similarity model.
var frenchStopWords = []string{
	"le", "la", "les", "de", "des", "du", "et", "en", "au", "aux", "à", "dans", "pour",
}

var (
	skillPatterns = buildSkillPatterns()

	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	digitPattern = regexp.MustCompile(`\b\d+\b`)
)

func buildSkillPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(technicalSkills))
	for _, skill := range technicalSkills {
		patterns[skill] = regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`)
	}
	return patterns
}

const (
	maxJobSkills      = 15
	maxReportedSkills = 20
	maxTrainingRecs   = 5
	maxKeyPhrases     = 5
	maxATSRecs        = 3
	maxCommonSkills   = 10
	maxPhraseSkills   = 6

	skillCoverageWeight  = 0.6
	importantSkillWeight = 0.4
	skillBlendWeight     = 0.7
	textBlendWeight      = 0.3
)

// TechnicalSkills returns a copy of the recognized skill vocabulary.
func TechnicalSkills() []string {
	out := make([]string, len(technicalSkills))
	copy(out, technicalSkills)
	return out
}

// ExtractSkills returns the known technical skills mentioned in a text.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range technicalSkills {
		if skillPatterns[skill].MatchString(lower) {
			found = append(found, skill)
		}
	}
	return found
}

// ExtractJobSkills extracts skills from a job description. When few skills
// are mentioned directly it widens to domain keyword groups and to French
// requirement phrasings.
func ExtractJobSkills(description string) []string {
	lower := strings.ToLower(description)
	knownSkills := stringSet(technicalSkills)

	var skills []string
	for _, skill := range technicalSkills {
		if skillPatterns[skill].MatchString(lower) {
			skills = append(skills, skill)
		}
	}

	if len(skills) < 3 {
		for _, group := range domainKeywords {
			var matches []string
			for _, keyword := range group.keywords {
				if strings.Contains(lower, keyword) {
					matches = append(matches, keyword)
				}
			}
			// A domain counts only when at least two of its keywords appear.
			if len(matches) >= 2 {
				skills = append(skills, matches...)
			}
		}
	}

	for _, pattern := range requirementPatterns {
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			if knownSkills[match[1]] {
				skills = append(skills, match[1])
			}
		}
	}

	unique := dedupeStrings(skills)
	if len(unique) > maxJobSkills {
		unique = unique[:maxJobSkills]
	}
	return unique
}

// ScoreBreakdown details how the match score was computed.
type ScoreBreakdown struct {
	FinalScore         float64  `json:"final_score"`
	Method             string   `json:"method"`
	CVSkillsCount      int      `json:"cv_skills_count"`
	JobSkillsCount     int      `json:"job_skills_count"`
	CommonSkillsCount  int      `json:"common_skills_count"`
	CoveragePercentage float64  `json:"coverage_percentage"`
	ImportantMatches   []string `json:"important_matches,omitempty"`
}

// scoreMatch blends skill coverage, important-skill coverage and full-text
// similarity. With no job skills detected it falls back to similarity alone.
func scoreMatch(cvSkills, jobSkills []string, cvText, jobText string) ScoreBreakdown {
	if len(jobSkills) == 0 {
		similarity, err := pairSimilarity(cvText, jobText, frenchStopWords, 1000)
		if err != nil {
			return ScoreBreakdown{Method: "no_skills_detected", CVSkillsCount: len(cvSkills)}
		}
		return ScoreBreakdown{
			FinalScore:    round2(similarity),
			Method:        "tfidf_fallback",
			CVSkillsCount: len(cvSkills),
		}
	}

	cvSet := stringSet(cvSkills)
	var common []string
	for _, skill := range jobSkills {
		if cvSet[skill] {
			common = append(common, skill)
		}
	}
	coverage := float64(len(common)) / float64(len(jobSkills))

	importantSet := stringSet(importantSkills)
	var importantCommon []string
	for _, skill := range common {
		if importantSet[skill] {
			importantCommon = append(importantCommon, skill)
		}
	}
	importantInJob := 0
	for _, skill := range jobSkills {
		if importantSet[skill] {
			importantInJob++
		}
	}
	importantScore := 0.0
	if importantInJob > 0 {
		importantScore = float64(len(importantCommon)) / float64(importantInJob)
	}

	skillScore := coverage*skillCoverageWeight + importantScore*importantSkillWeight

	finalScore := skillScore
	if similarity, err := pairSimilarity(cvText, jobText, frenchStopWords, 1000); err == nil {
		finalScore = skillScore*skillBlendWeight + similarity*textBlendWeight
	}

	return ScoreBreakdown{
		FinalScore:         round2(finalScore),
		Method:             "skills_analysis",
		CVSkillsCount:      len(cvSkills),
		JobSkillsCount:     len(jobSkills),
		CommonSkillsCount:  len(common),
		CoveragePercentage: round1(coverage * 100),
		ImportantMatches:   importantCommon,
	}
}

// SkillGap describes one missing skill with remediation guidance.
type SkillGap struct {
	SkillName     string `json:"skill_name"`
	RequiredLevel string `json:"required_level"`
	CurrentLevel  string `json:"current_level"`
	GapSeverity   string `json:"gap_severity"`
	Importance    string `json:"importance"`
	Suggestion    string `json:"suggestion"`
}

var (
	essentialGapSkills = stringSet([]string{"python", "javascript", "sql", "aws", "react", "java"})
	importantGapSkills = stringSet([]string{"docker", "kubernetes", "typescript", "node.js", "machine learning"})
)

// SkillGaps lists the job skills missing from the CV, graded by severity.
func SkillGaps(cvSkills, jobSkills []string) []SkillGap {
	cvSet := stringSet(cvSkills)

	var gaps []SkillGap
	for _, skill := range jobSkills {
		if cvSet[skill] {
			continue
		}
		severity, importance := "low", "Secondaire"
		switch {
		case essentialGapSkills[skill]:
			severity, importance = "high", "Essentielle"
		case importantGapSkills[skill]:
			severity, importance = "medium", "Importante"
		}
		gaps = append(gaps, SkillGap{
			SkillName:     skill,
			RequiredLevel: "Demandée dans l'offre",
			CurrentLevel:  "Non présente dans le CV",
			GapSeverity:   severity,
			Importance:    importance,
			Suggestion:    fmt.Sprintf("Considérez une formation en %s", skill),
		})
	}
	return gaps
}

// KeyPhrase suggests CV wording for a missing skill.
type KeyPhrase struct {
	Skill               string   `json:"skill"`
	CurrentSituation    string   `json:"current_situation"`
	SuggestedPhrases    []string `json:"suggested_phrases"`
	RecommendedSections []string `json:"recommended_sections"`
	Impact              string   `json:"impact"`
}

var keyPhrasesBySkill = map[string][]string{
	"python": {
		"Développement d'applications Python robustes et maintenables",
		"Implémentation de solutions Python pour résoudre des problèmes complexes",
	},
	"javascript": {
		"Création d'interfaces utilisateur dynamiques avec JavaScript moderne",
		"Développement d'applications web interactives avec JavaScript/TypeScript",
	},
	"react": {
		"Développement de composants React réutilisables avec hooks et state management",
		"Création d'interfaces utilisateur performantes avec React et écosystème moderne",
	},
	"sql": {
		"Conception et optimisation de bases de données relationnelles avec SQL",
		"Requêtage et modélisation de données avec SQL pour applications business",
	},
	"aws": {
		"Déploiement et gestion d'infrastructures cloud scalables sur AWS",
		"Configuration de services AWS pour applications haute disponibilité",
	},
	"docker": {
		"Containerisation d'applications avec Docker pour déploiement reproductible",
		"Création et gestion d'environnements Docker pour développement et production",
	},
	"git": {
		"Gestion de versions collaborative avec Git et bonnes pratiques de branching",
		"Workflow Git pour développement collaboratif et intégration continue",
	},
	"machine learning": {
		"Implémentation de modèles de machine learning pour résoudre des problèmes business",
		"Développement de pipelines data science avec preprocessing et modélisation",
	},
}

// KeyPhrases suggests CV phrasings for the first job skills missing from the
// CV that have wording templates.
func KeyPhrases(jobSkills, cvSkills []string) []KeyPhrase {
	cvSet := stringSet(cvSkills)

	considered := jobSkills
	if len(considered) > maxPhraseSkills {
		considered = considered[:maxPhraseSkills]
	}

	var phrases []KeyPhrase
	for _, skill := range considered {
		if cvSet[skill] {
			continue
		}
		suggested, ok := keyPhrasesBySkill[skill]
		if !ok {
			continue
		}
		phrases = append(phrases, KeyPhrase{
			Skill:               skill,
			CurrentSituation:    fmt.Sprintf("Compétence '%s' non mentionnée dans le CV", skill),
			SuggestedPhrases:    suggested,
			RecommendedSections: []string{"Expérience professionnelle", "Compétences techniques", "Projets"},
			Impact:              "Améliorer la pertinence pour les systèmes ATS",
		})
	}
	return phrases
}

// Recommendation is one ATS optimization recommendation.
type Recommendation struct {
	Category    string   `json:"category"`
	Issue       string   `json:"issue"`
	Solution    string   `json:"solution"`
	Priority    string   `json:"priority"`
	ActionItems []string `json:"action_items"`
}

// ATSRecommendations inspects the CV for traits ATS filters penalize:
// missing keywords, excessive length, missing contact email and too few
// quantified results.
func ATSRecommendations(cvText, jobDescription string) []Recommendation {
	var recommendations []Recommendation

	cvSkills := ExtractSkills(cvText)
	jobSkills := ExtractJobSkills(jobDescription)
	cvSet := stringSet(cvSkills)
	var missing []string
	for _, skill := range jobSkills {
		if !cvSet[skill] {
			missing = append(missing, skill)
		}
	}

	if len(missing) > 0 {
		shown := missing
		if len(shown) > 5 {
			shown = shown[:5]
		}
		recommendations = append(recommendations, Recommendation{
			Category: "Optimisation Mots-clés",
			Issue:    fmt.Sprintf("%d compétences demandées non présentes", len(missing)),
			Solution: fmt.Sprintf("Ajouter ces compétences clés: %s", strings.Join(shown, ", ")),
			Priority: "Élevée",
			ActionItems: []string{
				"Inclure dans la section Compétences techniques",
				"Mentionner dans les descriptions d'expérience",
				"Ajouter dans le profil/summary",
			},
		})
	}

	wordCount := len(strings.Fields(cvText))
	if wordCount > 800 {
		recommendations = append(recommendations, Recommendation{
			Category: "Structure du CV",
			Issue:    fmt.Sprintf("CV trop long (%d mots), risque de rejet ATS", wordCount),
			Solution: "Réduire à 400-600 mots maximum",
			Priority: "Moyenne",
			ActionItems: []string{
				"Être concis dans les descriptions",
				"Privilégier les phrases courtes",
				"Supprimer les informations redondantes",
			},
		})
	}

	if !emailPattern.MatchString(cvText) {
		recommendations = append(recommendations, Recommendation{
			Category: "Informations de contact",
			Issue:    "Email manquant dans le CV",
			Solution: "Ajouter une section contact avec email professionnel",
			Priority: "Élevée",
			ActionItems: []string{
				"Ajouter email en haut du CV",
				"Inclure téléphone et LinkedIn si disponible",
			},
		})
	}

	if len(digitPattern.FindAllString(cvText, -1)) < 3 {
		recommendations = append(recommendations, Recommendation{
			Category: "Quantification des résultats",
			Issue:    "Peu de chiffres pour démontrer l'impact",
			Solution: "Ajouter des chiffres concrets (%, €, nombre de personnes, etc.)",
			Priority: "Moyenne",
			ActionItems: []string{
				"Quantifier les réalisations",
				"Utiliser des pourcentages d'amélioration",
				"Mentionner des chiffres business",
			},
		})
	}

	return recommendations
}

// ReportSummary condenses the analysis for quick display.
type ReportSummary struct {
	CVSkillsCount  int      `json:"cv_skills_count"`
	JobSkillsCount int      `json:"job_skills_count"`
	CommonSkills   []string `json:"common_skills"`
	Coverage       string   `json:"coverage"`
}

// Report is the full CV versus job description analysis.
type Report struct {
	MatchScore              float64                  `json:"match_score"`
	ScoreAnalysis           ScoreBreakdown           `json:"score_analysis"`
	CVSkills                []string                 `json:"cv_skills"`
	JobSkills               []string                 `json:"job_skills"`
	SkillGaps               []SkillGap               `json:"skill_gaps"`
	MissingSkills           []string                 `json:"missing_skills"`
	TrainingRecommendations []courses.Recommendation `json:"training_recommendations"`
	KeyPhrases              []KeyPhrase              `json:"key_phrases"`
	ATSRecommendations      []Recommendation         `json:"ats_recommendations"`
	OverallAssessment       string                   `json:"overall_assessment"`
	ConfidenceLevel         string                   `json:"confidence_level"`
	Summary                 ReportSummary            `json:"summary"`
}

// AnalyzeCVvsJob runs the complete CV versus job description analysis:
// skills, match score, gaps, training recommendations, key phrases and ATS
// recommendations.
func AnalyzeCVvsJob(cvText, jobDescription string) *Report {
	cvSkills := ExtractSkills(cvText)
	jobSkills := ExtractJobSkills(jobDescription)

	breakdown := scoreMatch(cvSkills, jobSkills, cvText, jobDescription)

	gaps := SkillGaps(cvSkills, jobSkills)
	missing := make([]string, len(gaps))
	for i, gap := range gaps {
		missing[i] = gap.SkillName
	}

	training := courses.Recommendations(missing)
	if len(training) > maxTrainingRecs {
		training = training[:maxTrainingRecs]
	}
	phrases := KeyPhrases(jobSkills, cvSkills)
	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	atsRecs := ATSRecommendations(cvText, jobDescription)
	if len(atsRecs) > maxATSRecs {
		atsRecs = atsRecs[:maxATSRecs]
	}

	assessment, confidence := assessScore(breakdown.FinalScore)

	cvSet := stringSet(cvSkills)
	var common []string
	for _, skill := range jobSkills {
		if cvSet[skill] {
			common = append(common, skill)
		}
	}
	if len(common) > maxCommonSkills {
		common = common[:maxCommonSkills]
	}

	shownCVSkills := cvSkills
	if len(shownCVSkills) > maxReportedSkills {
		shownCVSkills = shownCVSkills[:maxReportedSkills]
	}

	return &Report{
		MatchScore:              breakdown.FinalScore,
		ScoreAnalysis:           breakdown,
		CVSkills:                shownCVSkills,
		JobSkills:               jobSkills,
		SkillGaps:               gaps,
		MissingSkills:           missing,
		TrainingRecommendations: training,
		KeyPhrases:              phrases,
		ATSRecommendations:      atsRecs,
		OverallAssessment:       assessment,
		ConfidenceLevel:         confidence,
		Summary: ReportSummary{
			CVSkillsCount:  len(cvSkills),
			JobSkillsCount: len(jobSkills),
			CommonSkills:   common,
			Coverage:       fmt.Sprintf("%s%% des compétences demandées", formatNumber(breakdown.CoveragePercentage)),
		},
	}
}

func assessScore(score float64) (assessment, confidence string) {
	switch {
	case score >= 0.7:
		return "✅ Excellent matching - Candidature fortement recommandée", "Élevée"
	case score >= 0.5:
		return "⚠️ Bon matching - Quelques compétences à développer", "Moyenne"
	case score >= 0.3:
		return "⚠️ Matching moyen - Formation recommandée avant candidature", "Faible"
	default:
		return "❌ Faible matching - Envisagez d'autres offres plus alignées", "Très faible"
	}
}

// pairSimilarity fits a TF-IDF model on the two texts alone and returns
// their cosine similarity.
func pairSimilarity(a, b string, stopWords []string, maxFeatures int) (float64, error) {
	vectorizer := jobs.NewVectorizer(jobs.VectorizerConfig{
		MaxFeatures: maxFeatures,
		StopWords:   stopWords,
	})
	vectors, err := vectorizer.FitTransform([]string{a, b})
	if err != nil {
		return 0, err
	}
	return jobs.CosineSimilarity(vectors[0], vectors[1]), nil
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var unique []string
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			unique = append(unique, value)
		}
	}
	return unique
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
