package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ybennani/career-match/internal/analysis"
	"github.com/ybennani/career-match/internal/ingestion"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a CV against a job description",
	Long:  "Scores a CV against a job description offline: skill overlap, match score, skill gaps with course suggestions and ATS recommendations.",
	RunE:  runAnalyze,
}

var (
	analyzeCVFile     string
	analyzeJobFile    string
	analyzeOutputFile string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCVFile, "cv", "", "Path to the CV file (required)")
	analyzeCmd.Flags().StringVar(&analyzeJobFile, "job", "", "Path to the job description text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to the output JSON file (default: stdout)")

	_ = analyzeCmd.MarkFlagRequired("cv")
	_ = analyzeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	cvData, err := os.ReadFile(analyzeCVFile)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}
	cvText, err := ingestion.ExtractText(filepath.Base(analyzeCVFile), cvData)
	if err != nil {
		return fmt.Errorf("failed to extract CV text: %w", err)
	}

	jobData, err := os.ReadFile(analyzeJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description file: %w", err)
	}

	report := analysis.AnalyzeCVvsJob(cvText, string(jobData))

	jsonBytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if analyzeOutputFile == "" {
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)
		return nil
	}
	if err := os.WriteFile(analyzeOutputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Analysis written to %s\n", analyzeOutputFile)

	return nil
}
