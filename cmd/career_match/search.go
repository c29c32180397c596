package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ybennani/career-match/internal/jobs"
	"github.com/ybennani/career-match/internal/observability"
	"github.com/ybennani/career-match/internal/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Match a free-text query against the job dataset",
	Long:  "Ranks the job dataset against a free-text query with TF-IDF cosine similarity and prints the top matches as JSON.",
	RunE:  runSearch,
}

var (
	searchQuery   string
	searchTopK    int
	searchJobsCSV string
	searchVerbose bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "Number of matches to return (1-20)")
	searchCmd.Flags().StringVar(&searchJobsCSV, "jobs-csv", "", "Job dataset CSV replacing the embedded one")
	searchCmd.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "Print a formatted match summary")
	_ = searchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, _ []string) error {
	if searchTopK < 1 || searchTopK > 20 {
		return fmt.Errorf("top-k must be between 1 and 20")
	}

	store, err := loadStore(searchJobsCSV)
	if err != nil {
		return err
	}
	matcher, err := jobs.NewMatcher(store)
	if err != nil {
		return fmt.Errorf("failed to build matcher: %w", err)
	}

	matches := matcher.Search(searchQuery, searchTopK)
	results := make([]types.JobMatch, 0, len(matches))
	for _, match := range matches {
		job, err := store.Job(match.Index)
		if err != nil {
			continue
		}
		results = append(results, types.JobMatch{
			Job:         job,
			MatchScore:  match.Score,
			LinkedInURL: jobs.LinkedInURL(job.JobTitle, ""),
		})
	}

	if searchVerbose {
		observability.NewPrinter(os.Stderr).PrintMatches(results)
	}

	jsonBytes, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)

	return nil
}

// loadStore opens the dataset behind the matcher commands. An empty path
// selects the embedded CSV.
func loadStore(path string) (*jobs.Store, error) {
	if path == "" {
		store, err := jobs.NewStore()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded job dataset: %w", err)
		}
		return store, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open job dataset: %w", err)
	}
	defer f.Close()

	store, err := jobs.NewStoreFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load job dataset: %w", err)
	}
	return store, nil
}
