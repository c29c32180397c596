package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/prompts"
	"github.com/ybennani/career-match/internal/types"
)

// coachPromptsFile holds Karim's persona and thinking templates.
const coachPromptsFile = "coach.json"

// CoachAnalysis carries the market-oriented fragments extracted from a
// generated coaching response.
type CoachAnalysis struct {
	MarketInsight string   `json:"market_insight"`
	KeyAdvice     string   `json:"key_advice"`
	LocalContext  string   `json:"local_context"`
	ActionSteps   []string `json:"action_steps"`
}

// CoachResponse is the full coaching payload: the generated (or canned)
// response plus intent, follow-up questions and extraction metadata.
type CoachResponse struct {
	Intent             string        `json:"intent"`
	Response           string        `json:"response"`
	NeedsClarification bool          `json:"needs_clarification"`
	CoachAnalysis      CoachAnalysis `json:"coach_analysis"`
	NextQuestions      []string      `json:"next_questions"`
	IsCoachResponse    bool          `json:"is_coach_response"`
	ModelUsed          string        `json:"model_used,omitempty"`
	IsFallback         bool          `json:"is_fallback,omitempty"`
}

// Coach wraps an LLM client with the Karim career-coach persona for the
// Moroccan tech market. A nil client degrades to canned responses so the
// assistant keeps working without an API key.
type Coach struct {
	client llm.Client
}

// NewCoach creates a coach backed by the given client. Pass nil to run
// in fallback-only mode.
func NewCoach(client llm.Client) *Coach {
	return &Coach{client: client}
}

// coachIntents maps detection keywords to an intent label. Order matters:
// the first group with a keyword hit wins.
var coachIntents = []struct {
	intent   string
	keywords []string
}{
	{"search", []string{"cherche", "recherche", "trouver", "postuler", "offre", "emploi", "job", "stage"}},
	{"orientation", []string{"perdu", "sais pas", "commencer", "début", "choisir"}},
	{"guidance", []string{"conseil", "aide", "comment", "faire", "étapes"}},
	{"comparison", []string{"vs", "comparer", "différence", "mieux"}},
}

func detectCoachIntent(message string) string {
	lower := strings.ToLower(message)
	for _, group := range coachIntents {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.intent
			}
		}
	}
	return "coaching"
}

// thinkingPromptKey selects the prompt template for an intent. Guidance,
// comparison and plain coaching all share the general template.
func thinkingPromptKey(intent string) string {
	switch intent {
	case "search":
		return "thinking-search"
	case "orientation":
		return "thinking-orientation"
	default:
		return "thinking-general"
	}
}

// clarificationMarkers flag a generated response that is asking the user
// for more detail rather than concluding.
var clarificationMarkers = []string{"peux-tu", "pourrais-tu", "quel est", "quelle est", "dis-moi"}

func asksForClarification(content string) bool {
	if strings.Contains(content, "?") {
		return true
	}
	lower := strings.ToLower(content)
	for _, marker := range clarificationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Thinking runs the full coaching turn: detect the intent, generate a
// persona response for it and derive analysis plus follow-up questions.
// Any generation failure falls back to the canned responses.
func (c *Coach) Thinking(ctx context.Context, message string) CoachResponse {
	clean := strings.TrimSpace(message)
	intent := detectCoachIntent(clean)

	if c.client == nil {
		return c.FallbackResponse(message)
	}

	prompt, err := prompts.GetFormatted(coachPromptsFile, thinkingPromptKey(intent), map[string]string{
		"Message": clean,
	})
	if err != nil {
		log.Printf("coach: loading thinking prompt: %v", err)
		return c.FallbackResponse(message)
	}
	system := prompts.MustGet(coachPromptsFile, "system")

	content, err := c.client.GenerateConversational(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("coach: generating response: %v", err)
		return c.FallbackResponse(message)
	}

	return CoachResponse{
		Intent:             intent,
		Response:           content,
		NeedsClarification: asksForClarification(content),
		CoachAnalysis:      extractCoachAnalysis(content),
		NextQuestions:      followupQuestions(intent, clean),
		IsCoachResponse:    true,
		ModelUsed:          c.client.GetModel(llm.TierStandard),
	}
}

// Keyword groups for mining a generated response. Market and advice hits
// collect sentence fragments, action hits collect whole lines.
var (
	marketKeywords = []string{"marché marocain", "au maroc", "casablanca", "rabat", "salaire"}
	adviceKeywords = []string{"je te conseille", "mon conseil", "je te suggère", "tu devrais"}
	actionKeywords = []string{"premièrement", "ensuite", "après", "étape", "commence par"}
)

// minActionStepLength filters out headers and stray fragments when
// collecting action steps from response lines.
const minActionStepLength = 20

func collectSentences(content string, keywords []string) string {
	var out strings.Builder
	for _, sentence := range strings.Split(content, ".") {
		lower := strings.ToLower(sentence)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				out.WriteString(strings.TrimSpace(sentence))
				out.WriteString(". ")
				break
			}
		}
	}
	return out.String()
}

// extractCoachAnalysis mines a generated response for market insights,
// direct advice and actionable steps.
func extractCoachAnalysis(content string) CoachAnalysis {
	analysis := CoachAnalysis{
		MarketInsight: collectSentences(content, marketKeywords),
		KeyAdvice:     collectSentences(content, adviceKeywords),
	}
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range actionKeywords {
			if strings.Contains(lower, kw) {
				trimmed := strings.TrimSpace(line)
				if utf8.RuneCountInString(trimmed) > minActionStepLength {
					analysis.ActionSteps = append(analysis.ActionSteps, trimmed)
				}
				break
			}
		}
	}
	return analysis
}

// dataContextMarkers switch the follow-up questions to data/AI-specific
// sets when the user's message mentions that universe.
var dataContextMarkers = []string{"data", "python", "machine learning", "ia"}

// questionsDB holds the generic follow-up questions per intent.
var questionsDB = map[string][]string{
	"orientation": {
		"Qu'est-ce qui te passionne vraiment dans le travail ?",
		"Quels sont tes talents naturels que tu aimerais exploiter ?",
		"Te vois-tu plutôt en startup ou en grande entreprise ?",
		"Quel impact veux-tu avoir à travers ton travail ?",
	},
	"comparison": {
		"Quel critère est le plus important pour toi dans ce choix ?",
		"Préfères-tu la stabilité ou les opportunités de croissance ?",
		"Quel équilibre vie pro/perso recherches-tu ?",
		"Quels compromis es-tu prêt à faire ?",
	},
	"guidance": {
		"Quel est ton objectif principal à court terme ?",
		"Quels obstacles rencontres-tu actuellement ?",
		"De quelles ressources disposes-tu ? (temps, budget, réseau)",
		"Quelle serait une première petite victoire pour toi ?",
	},
	"search": {
		"Dans quelle ville recherches-tu précisément ?",
		"Quel type de contrat préfères-tu ? (CDI, CDD, freelance, stage)",
		"Quel est ton niveau d'expérience dans ce domaine ?",
		"Y a-t-il des entreprises qui t'intéressent particulièrement ?",
	},
	"coaching": {
		"Peux-tu me parler de ton parcours jusqu'à présent ?",
		"Qu'est-ce qui te motive profondément dans ton travail ?",
		"Quels sont tes trois plus grands atouts professionnels ?",
		"Quel défi professionnel aimerais-tu relever cette année ?",
	},
}

// defaultQuestions covers intents absent from questionsDB.
var defaultQuestions = []string{
	"Peux-tu me donner un peu plus de contexte sur ta situation ?",
	"Qu'est-ce qui est le plus important pour toi dans cette démarche ?",
	"Comment puis-je t'aider au mieux à avancer ?",
}

// dataQuestions are the data/AI-specific follow-up sets keyed by intent.
// Guidance and comparison keep the generic questions even in a data
// context.
var dataQuestions = map[string][]string{
	"search": {
		"Dans quel secteur d'activité cherches-tu à travailler ? (fintech, e-commerce, santé, etc.)",
		"Quel est ton niveau d'expérience en data science/ML ?",
		"Recherches-tu un stage, alternance, ou CDI ?",
		"As-tu un portfolio ou projets à montrer ?",
	},
	"orientation": {
		"Qu'est-ce qui t'attire particulièrement dans la data et l'IA ?",
		"As-tu déjà travaillé sur des projets concrets en data/ML ?",
		"Te vois-tu plutôt dans une startup dynamique ou une grande entreprise stable ?",
		"Es-tu prêt à te former sur de nouvelles technologies ?",
	},
	"coaching": {
		"Quel type de problèmes en IA/data t'intéresse le plus ?",
		"As-tu une spécialisation particulière en tête ?",
		"Comment vois-tu ton évolution dans ce domaine ?",
		"Quels sont tes objectifs à 1 an ?",
	},
}

func followupQuestions(intent, message string) []string {
	lower := strings.ToLower(message)
	for _, marker := range dataContextMarkers {
		if strings.Contains(lower, marker) {
			if qs, ok := dataQuestions[intent]; ok {
				return qs
			}
			break
		}
	}
	if qs, ok := questionsDB[intent]; ok {
		return qs
	}
	return defaultQuestions
}

// fallbackScenario is one canned coaching branch, matched against the
// cleaned lowercase message.
type fallbackScenario struct {
	match     func(string) bool
	intent    string
	response  string
	questions []string
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

var fallbackScenarios = []fallbackScenario{
	{
		match: func(m string) bool {
			return containsAny(m, []string{"business", "startup", "propre"})
		},
		intent:   "guidance",
		response: "Super ambition ! Créer son business dans le tech au Maroc, c'est le bon moment. À Casablanca, l'écosystème startup est dynamique avec des incubateurs comme SETT, Lean, et Foundawery. Parlons de ton projet : as-tu déjà une idée précise ou tu explores les possibilités ?",
		questions: []string{
			"As-tu une idée de business en tête ?",
			"Quel problème veux-tu résoudre avec la tech ?",
			"As-tu des compétences techniques ou commerciales ?",
			"Quel budget/temps peux-tu y consacrer ?",
		},
	},
	{
		match: func(m string) bool {
			return containsAny(m, []string{"data", "python", "machine learning"}) &&
				containsAny(m, []string{"casa", "casablanca"})
		},
		intent:   "search",
		response: "Excellent ! Tu as un profil data/ML et tu cherches à Casablanca. C'est très recherché ! Les entreprises comme OCP, Inwi, Marjane, et les fintechs recrutent activement. Veux-tu que je te montre des opportunités concrètes ?",
		questions: []string{
			"Dans quel secteur ? (fintech, e-commerce, santé, etc.)",
			"Quel niveau d'expérience ? (junior, intermédiaire, senior)",
			"Type de contrat ? (stage, alternance, CDI)",
			"Fourchette salariale attendue ?",
		},
	},
	{
		match: func(m string) bool {
			return containsAny(m, []string{"data", "python", "machine learning", "ia"})
		},
		intent:   "coaching",
		response: "Je vois que tu t'intéresses à l'IA/Data. Excellent choix ! Le Maroc a un vrai besoin en compétences data. Le marché offre des salaires de 8k-25k MAD selon l'expérience. Veux-tu explorer les opportunités ou parler de ton orientation ?",
		questions: []string{
			"Qu'est-ce qui t'attire dans l'IA/Data ?",
			"As-tu déjà des compétences techniques ?",
			"Préfères-tu un emploi ou créer ton propre projet ?",
			"Quel est ton objectif à 1 an ?",
		},
	},
	{
		match: func(m string) bool {
			return containsAny(m, []string{"perdu", "orientation", "commencer", "sais pas"})
		},
		intent:   "orientation",
		response: "Je comprends que tu cherches ta voie. C'est normal ! Le marché tech marocain offre plein d'opportunités : dev web/mobile, data science, cybersécurité, cloud, etc. Parlons de ce qui te passionne vraiment.",
		questions: []string{
			"Qu'est-ce qui te passionne dans le tech ?",
			"Quels sont tes talents naturels ?",
			"Te vois-tu en startup ou grande entreprise ?",
			"Quel impact veux-tu avoir ?",
		},
	},
}

// FallbackResponse returns a canned coaching answer when no LLM is
// available or generation failed. Branches are checked in order and the
// first match wins.
func (c *Coach) FallbackResponse(message string) CoachResponse {
	clean := strings.TrimSpace(message)
	clean = strings.ReplaceAll(clean, `"`, "")
	clean = strings.ReplaceAll(clean, "'", "")
	lower := strings.ToLower(clean)

	intent := "coaching"
	response := "Merci pour ton message. En tant que coach tech marocain, je peux t'aider sur : orientation carrière, recherche d'emploi, conseils business, ou développement de compétences. Sur quoi veux-tu qu'on travaille ensemble ?"
	questions := []string{
		"Peux-tu me parler de ta situation actuelle ?",
		"Quel est ton objectif principal ?",
		"De quel type d'aide as-tu le plus besoin ?",
		"Quelle serait une première victoire pour toi ?",
	}
	for _, scenario := range fallbackScenarios {
		if scenario.match(lower) {
			intent = scenario.intent
			response = scenario.response
			questions = scenario.questions
			break
		}
	}

	return CoachResponse{
		Intent:             intent,
		Response:           response,
		NeedsClarification: true,
		NextQuestions:      questions,
		IsCoachResponse:    true,
		IsFallback:         true,
	}
}

// maxContextJobs caps how many job titles feed the jobs-context prompt.
const maxContextJobs = 3

// RespondWithJobsContext produces a coaching message grounded in actual
// search results. Without a client it builds a static summary of the top
// titles instead.
func (c *Coach) RespondWithJobsContext(ctx context.Context, message string, jobs []types.JobResult) string {
	if len(jobs) == 0 {
		return c.Thinking(ctx, message).Response
	}

	top := jobs
	if len(top) > maxContextJobs {
		top = top[:maxContextJobs]
	}

	if c.client == nil {
		titles := make([]string, 0, len(top))
		for _, job := range top {
			title := job.JobTitle
			if title == "" {
				title = "Inconnu"
			}
			titles = append(titles, title)
		}
		return fmt.Sprintf(
			"Je vois %d opportunités pertinentes. Postes : %s. Mon conseil : personnalise ton CV pour chaque poste et mets en avant tes compétences en Python/ML !",
			len(jobs), strings.Join(titles, ", "))
	}

	var context strings.Builder
	for i, job := range top {
		title := job.JobTitle
		if title == "" {
			title = "Titre inconnu"
		}
		fmt.Fprintf(&context, "%d. %s\n", i+1, title)
	}

	prompt, err := prompts.GetFormatted(coachPromptsFile, "jobs-context", map[string]string{
		"Message": message,
		"Jobs":    context.String(),
	})
	if err != nil {
		log.Printf("coach: loading jobs-context prompt: %v", err)
		return c.FallbackResponse(message).Response
	}
	system := prompts.MustGet(coachPromptsFile, "system")

	content, err := c.client.GenerateConversational(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		log.Printf("coach: generating jobs-context response: %v", err)
		return c.FallbackResponse(message).Response
	}
	return content
}
