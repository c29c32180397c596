package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ybennani/career-match/internal/evaluation"
	"github.com/ybennani/career-match/internal/ingestion"
	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/observability"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Review a CV against ATS criteria with Gemini",
	Long:  "Extracts the text of a CV and asks Gemini for a structured ATS review: an overall score plus per-category positives and negatives.",
	RunE:  runEvaluate,
}

var (
	evaluateInputFile  string
	evaluateOutputFile string
	evaluateAPIKey     string
	evaluateVerbose    bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateInputFile, "in", "i", "", "Path to the CV file (required)")
	evaluateCmd.Flags().StringVarP(&evaluateOutputFile, "out", "o", "", "Path to the output JSON file (default: stdout)")
	evaluateCmd.Flags().StringVar(&evaluateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	evaluateCmd.Flags().BoolVarP(&evaluateVerbose, "verbose", "v", false, "Print a review summary")

	_ = evaluateCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(_ *cobra.Command, _ []string) error {
	apiKey := evaluateAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	data, err := os.ReadFile(evaluateInputFile)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}

	text, err := ingestion.ExtractText(filepath.Base(evaluateInputFile), data)
	if err != nil {
		return fmt.Errorf("failed to extract CV text: %w", err)
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	eval, err := evaluation.NewEvaluator(client).Evaluate(ctx, text)
	if err != nil {
		return err
	}

	if evaluateVerbose {
		observability.NewPrinter(os.Stderr).PrintEvaluation(eval)
	}

	jsonBytes, err := json.MarshalIndent(eval, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	if evaluateOutputFile == "" {
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)
		return nil
	}
	if err := os.WriteFile(evaluateOutputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Evaluation written to %s\n", evaluateOutputFile)

	return nil
}
