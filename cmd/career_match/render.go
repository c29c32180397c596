package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ybennani/career-match/internal/compiling"
	"github.com/ybennani/career-match/internal/config"
	"github.com/ybennani/career-match/internal/observability"
	"github.com/ybennani/career-match/internal/pipeline"
	"github.com/ybennani/career-match/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a LaTeX resume from a parsed profile",
	Long:  "Generates an ATS-friendly LaTeX resume from parsed profile JSON and compiles it to PDF when pdflatex is available.",
	RunE:  runRender,
}

var (
	renderInputFile    string
	renderOutputFile   string
	renderPDFFile      string
	renderTemplateFile string
	renderVerbose      bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to the parsed profile JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to the output LaTeX file (default: stdout)")
	renderCmd.Flags().StringVar(&renderPDFFile, "pdf", "", "Path to write the compiled PDF (requires pdflatex)")
	renderCmd.Flags().StringVarP(&renderTemplateFile, "template", "t", "", "LaTeX template overriding the embedded one")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print a render summary")

	_ = renderCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(renderCmd)
}

func runRender(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(renderInputFile)
	if err != nil {
		return fmt.Errorf("failed to read profile file: %w", err)
	}
	parsed := types.DecodeParsedResume(data)

	template := ""
	if renderTemplateFile != "" {
		templateBytes, err := os.ReadFile(renderTemplateFile)
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}
		template = string(templateBytes)
	}

	cfg := config.FromEnv()
	invoker := compiling.NewInvoker(compiling.Config{
		OverridePath: cfg.PdflatexPath,
		Timeout:      cfg.LatexTimeout(),
	})
	runner := pipeline.NewRunner(invoker)

	result, err := runner.Run(context.Background(), parsed, pipeline.Options{
		Template: template,
		Verbose:  renderVerbose,
	})
	if err != nil {
		return fmt.Errorf("render pipeline failed: %w", err)
	}

	if renderVerbose {
		observability.NewPrinter(os.Stderr).PrintPipelineResult(result)
	}

	if renderOutputFile == "" {
		_, _ = fmt.Fprintf(os.Stdout, "%s\n", result.DocumentSource)
	} else {
		if err := os.WriteFile(renderOutputFile, []byte(result.DocumentSource), 0644); err != nil {
			return fmt.Errorf("failed to write LaTeX file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "LaTeX source written to %s\n", renderOutputFile)
	}

	if renderPDFFile != "" {
		if !result.ArtifactAvailable {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: PDF not available: %s\n", result.Reason)
			return nil
		}
		pdfBytes, err := base64.StdEncoding.DecodeString(result.ArtifactBase64)
		if err != nil {
			return fmt.Errorf("failed to decode PDF artifact: %w", err)
		}
		if err := os.WriteFile(renderPDFFile, pdfBytes, 0644); err != nil {
			return fmt.Errorf("failed to write PDF file: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "PDF written to %s\n", renderPDFFile)
	}

	return nil
}
