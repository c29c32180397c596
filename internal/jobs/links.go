package jobs

import (
	"fmt"
	"net/url"
	"strings"
)

// defaultLocation is used when no search location is given.
const defaultLocation = "Morocco"

// LinkedInURL returns a LinkedIn job search link for a title.
func LinkedInURL(title, location string) string {
	if location == "" {
		location = defaultLocation
	}
	return fmt.Sprintf("https://www.linkedin.com/jobs/search/?keywords=%s&location=%s", quote(title), quote(location))
}

// IndeedURL returns an Indeed Morocco search link for a title.
func IndeedURL(title, location string) string {
	if location == "" {
		location = defaultLocation
	}
	return fmt.Sprintf("https://ma.indeed.com/jobs?q=%s&l=%s", quote(title), quote(location))
}

// GoogleJobsURL returns a Google search link scoped to the jobs panel.
func GoogleJobsURL(title, location string) string {
	if location == "" {
		location = defaultLocation
	}
	return fmt.Sprintf("https://www.google.com/search?q=%s&ibp=htl;jobs", quote(title+" jobs in "+location))
}

// MarocAnnoncesURL returns the MarocAnnonces job offers listing for a title.
func MarocAnnoncesURL(title string) string {
	slug := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	return fmt.Sprintf("https://www.marocannonces.com/categorie/309/Offres-emploi/%s/", quote(slug))
}

// RekruteURL returns the ReKrute offers search for a title.
func RekruteURL(title string) string {
	return fmt.Sprintf("https://www.rekrute.com/offres.html?p=%s", quote(title))
}

// SearchLinks builds the external job board links for a title, keyed the way
// API clients expect them. An empty location defaults to Morocco.
func SearchLinks(title, location string) map[string]string {
	return map[string]string{
		"linkedin_url":      LinkedInURL(title, location),
		"indeed_url":        IndeedURL(title, location),
		"google_url":        GoogleJobsURL(title, location),
		"marocannonces_url": MarocAnnoncesURL(title),
		"rekrute_url":       RekruteURL(title),
	}
}

// quote percent-encodes a URL component, with spaces as %20.
func quote(component string) string {
	return strings.ReplaceAll(url.QueryEscape(component), "+", "%20")
}
