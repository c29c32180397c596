package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ybennani/career-match/internal/ingestion"
	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/observability"
	"github.com/ybennani/career-match/internal/parsing"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a CV file into a structured profile",
	Long:  "Extracts text from a PDF, DOCX or plain-text CV and parses it into structured profile JSON via the ResumeParser API or Gemini.",
	RunE:  runParse,
}

var (
	parseInputFile  string
	parseOutputFile string
	parseAPIKey     string
	parseVerbose    bool
)

func init() {
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the CV file (required)")
	parseCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to the output JSON file (default: stdout)")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "ResumeParser API key (overrides RESUMEPARSER_API_KEY env var)")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print upload metadata and a profile summary")

	_ = parseCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}
	filename := filepath.Base(parseInputFile)

	if parseVerbose {
		meta := ingestion.NewMetadata(filename, data)
		if metaJSON, err := meta.ToJSON(); err == nil {
			_, _ = fmt.Fprintf(os.Stderr, "%s\n", metaJSON)
		}
	}

	ctx := context.Background()

	apiKey := parseAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("RESUMEPARSER_API_KEY")
	}

	var client llm.Client
	if apiKey == "" {
		if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
			client, err = llm.NewClient(ctx, llm.DefaultGeminiConfig(), geminiKey)
			if err != nil {
				return fmt.Errorf("failed to create Gemini client: %w", err)
			}
			defer func() { _ = client.Close() }()
		}
	}

	parser, err := parsing.NewParser(apiKey, client)
	if err != nil {
		return err
	}

	result, err := parser.Parse(ctx, filename, data)
	if err != nil {
		return fmt.Errorf("failed to parse CV: %w", err)
	}

	if parseVerbose {
		observability.NewPrinter(os.Stderr).PrintParsedResume(&result.Parsed)
	}

	jsonBytes, err := json.MarshalIndent(result.Parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if parseOutputFile == "" {
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", jsonBytes)
		return nil
	}
	if err := os.WriteFile(parseOutputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Parsed profile written to %s (source: %s)\n", parseOutputFile, result.Source)

	return nil
}
