package courses

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// DefaultScrapeTimeout is the HTTP timeout for course platform requests.
const DefaultScrapeTimeout = 10 * time.Second

// DefaultMaxCourses is the result cap when none is given.
const DefaultMaxCourses = 5

// maxCoursesPerPlatform limits how many cards are read per platform page.
const maxCoursesPerPlatform = 3

// liveSource marks courses found by scraping rather than the curated catalog.
const liveSource = "live_scraping"

// scrapeHeaders make platform pages serve their regular desktop markup.
var scrapeHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "fr,fr-FR;q=0.8,en-US;q=0.5,en;q=0.3",
}

// digitalSkills are the only skills Google Digital Garage is searched for.
var digitalSkills = map[string]bool{
	"marketing digital": true,
	"seo":               true,
	"analytics":         true,
	"e-commerce":        true,
	"réseaux sociaux":   true,
	"digital marketing": true,
}

// ScrapeError represents a failure fetching or parsing a platform page.
type ScrapeError struct {
	Platform string
	URL      string
	Message  string
	Cause    error
}

func (e *ScrapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scraping %s at %s: %s: %v", e.Platform, e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("scraping %s at %s: %s", e.Platform, e.URL, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

// Scraper searches course platforms for live course listings.
type Scraper struct {
	client *http.Client

	// Base URLs are fields so tests can point them at local servers.
	courseraBase      string
	udemyBase         string
	edxBase           string
	digitalGarageBase string
}

// NewScraper returns a scraper targeting the public course platforms.
func NewScraper() *Scraper {
	return &Scraper{
		client:            &http.Client{Timeout: DefaultScrapeTimeout},
		courseraBase:      "https://www.coursera.org",
		udemyBase:         "https://www.udemy.com",
		edxBase:           "https://www.edx.org",
		digitalGarageBase: "https://learndigital.withgoogle.com",
	}
}

// SearchCourses searches all platforms concurrently for a skill,
// deduplicates by course name and caps the result. Platform failures are
// logged and skipped. Results keep the fixed platform order so the cap
// is deterministic. When scraping comes back thin the result is topped up
// from the curated catalog, so known skills get answers offline too.
func (s *Scraper) SearchCourses(ctx context.Context, skill string, maxCourses int) []Course {
	if maxCourses <= 0 {
		maxCourses = DefaultMaxCourses
	}

	searches := []func(context.Context, string) ([]Course, error){
		s.SearchCoursera,
		s.SearchUdemy,
		s.SearchEdX,
		s.SearchDigitalGarage,
	}

	results := make([][]Course, len(searches))
	var g errgroup.Group
	for i, search := range searches {
		g.Go(func() error {
			found, err := search(ctx, skill)
			if err != nil {
				// One slow or blocked platform must not sink the rest.
				log.Printf("Course search failed for %q: %v", skill, err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	unique := make([]Course, 0, maxCourses)
	for _, found := range results {
		for _, course := range found {
			if seen[course.Name] {
				continue
			}
			seen[course.Name] = true
			unique = append(unique, course)
		}
	}

	if len(unique) > maxCourses {
		unique = unique[:maxCourses]
	}
	for _, course := range CatalogCourses(skill) {
		if len(unique) >= maxCourses {
			break
		}
		if seen[course.Name] {
			continue
		}
		seen[course.Name] = true
		unique = append(unique, course)
	}
	return unique
}

// SearchCoursera scrapes the Coursera search page for a skill.
func (s *Scraper) SearchCoursera(ctx context.Context, skill string) ([]Course, error) {
	searchURL := s.courseraBase + "/search?query=" + querySkill(skill)
	doc, err := s.fetchDocument(ctx, "Coursera", searchURL)
	if err != nil {
		return nil, err
	}

	var courses []Course
	doc.Find(`[data-testid*="search-result"], .cds-CommonCard`).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCoursesPerPlatform {
			return false
		}

		name := elementText(card, `[data-testid*="title"], .cds-CommonCard-title`)
		if name == "" {
			name = fmt.Sprintf("Cours %s - Coursera", skill)
		}

		level := "Beginner"
		cardText := strings.ToLower(card.Text())
		if strings.Contains(cardText, "intermediate") {
			level = "Intermediate"
		} else if strings.Contains(cardText, "advanced") {
			level = "Advanced"
		}

		courses = append(courses, Course{
			Platform: "Coursera",
			Name:     name,
			URL:      cardLink(card, s.courseraBase, searchURL),
			Duration: "4-8 weeks",
			Level:    level,
			Skill:    skill,
			Source:   liveSource,
		})
		return true
	})

	return courses, nil
}

// SearchUdemy scrapes the Udemy search page for a skill.
func (s *Scraper) SearchUdemy(ctx context.Context, skill string) ([]Course, error) {
	searchURL := s.udemyBase + "/courses/search/?q=" + querySkill(skill)
	doc, err := s.fetchDocument(ctx, "Udemy", searchURL)
	if err != nil {
		return nil, err
	}

	var courses []Course
	doc.Find(`[data-purpose*="course-card"], .course-card`).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCoursesPerPlatform {
			return false
		}

		name := elementText(card, `[data-purpose*="course-title"], .course-card-title`)
		if name == "" {
			name = fmt.Sprintf("Cours %s - Udemy", skill)
		}

		duration := elementText(card, `[data-purpose*="course-duration"], .course-duration`)
		if duration == "" {
			duration = "10+ hours"
		}

		courses = append(courses, Course{
			Platform: "Udemy",
			Name:     name,
			URL:      cardLink(card, s.udemyBase, searchURL),
			Duration: duration,
			Level:    "Beginner",
			Skill:    skill,
			Source:   liveSource,
		})
		return true
	})

	return courses, nil
}

// SearchEdX scrapes the edX search page for a skill.
func (s *Scraper) SearchEdX(ctx context.Context, skill string) ([]Course, error) {
	searchURL := s.edxBase + "/search?q=" + querySkill(skill)
	doc, err := s.fetchDocument(ctx, "edX", searchURL)
	if err != nil {
		return nil, err
	}

	var courses []Course
	doc.Find(`[data-course-id], .course-card`).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCoursesPerPlatform {
			return false
		}

		name := elementText(card, `h3, .course-title, [class*="title"]`)
		if name == "" {
			name = fmt.Sprintf("Cours %s - edX", skill)
		}

		courses = append(courses, Course{
			Platform: "edX",
			Name:     name,
			URL:      cardLink(card, s.edxBase, searchURL),
			Duration: "6-8 weeks",
			Level:    "Beginner",
			Skill:    skill,
			Source:   liveSource,
		})
		return true
	})

	return courses, nil
}

// SearchDigitalGarage scrapes Google Digital Garage. Only digital marketing
// skills are covered there, anything else returns no courses.
func (s *Scraper) SearchDigitalGarage(ctx context.Context, skill string) ([]Course, error) {
	if !digitalSkills[strings.ToLower(skill)] {
		return nil, nil
	}

	searchURL := s.digitalGarageBase + "/digitalgarage/courses"
	doc, err := s.fetchDocument(ctx, "Google Digital Garage", searchURL)
	if err != nil {
		return nil, err
	}

	var courses []Course
	doc.Find(`[class*="course-card"], .course-item`).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if i >= maxCoursesPerPlatform {
			return false
		}

		name := elementText(card, `h3, [class*="title"]`)
		if name == "" {
			name = fmt.Sprintf("Fundamentals of %s", skill)
		}

		courses = append(courses, Course{
			Platform: "Google Digital Garage",
			Name:     name,
			URL:      cardLink(card, s.digitalGarageBase, searchURL),
			Duration: "Self-paced",
			Level:    "Beginner",
			Skill:    skill,
			Source:   liveSource,
			Free:     true,
		})
		return true
	})

	return courses, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, platform, searchURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &ScrapeError{Platform: platform, URL: searchURL, Message: "failed to create request", Cause: err}
	}
	for key, value := range scrapeHeaders {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ScrapeError{Platform: platform, URL: searchURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &ScrapeError{Platform: platform, URL: searchURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ScrapeError{Platform: platform, URL: searchURL, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// elementText returns the trimmed text of the first element matching the
// selector, or "" when none matches.
func elementText(card *goquery.Selection, selector string) string {
	elem := card.Find(selector).First()
	if elem.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(elem.Text())
}

// cardLink resolves the first link of a card. Relative links are joined to
// the platform base, cards without links fall back to the search URL.
func cardLink(card *goquery.Selection, base, fallback string) string {
	href, ok := card.Find("a[href]").First().Attr("href")
	if !ok || href == "" {
		return fallback
	}
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return href
}

// querySkill encodes a skill for platform search query strings.
func querySkill(skill string) string {
	return strings.ReplaceAll(skill, " ", "%20")
}
