// Package pipeline sequences resume generation: normalize parsed fields,
// generate section fragments, assemble the document, compile it to PDF.
package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/ybennani/career-match/internal/compiling"
	"github.com/ybennani/career-match/internal/rendering"
	"github.com/ybennani/career-match/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Step names emitted through the progress callback.
const (
	StepFormat   = "format"
	StepGenerate = "generate"
	StepAssemble = "assemble"
	StepCompile  = "compile"
)

// Options holds per-run configuration for the pipeline.
type Options struct {
	// TargetRole is an optional role hint forwarded by the caller. It is
	// recorded in the run log only.
	TargetRole string
	// Template overrides the embedded document template when non-empty.
	Template string
	// WorkDir, when set, is used for compilation and left in place for the
	// caller. When empty a temporary directory is created and always
	// removed before Run returns.
	WorkDir string
	// Verbose prints additional progress detail.
	Verbose bool
	// OnProgress receives step events when configured.
	OnProgress ProgressCallback
}

// Runner executes the generation pipeline with a shared compiler invoker.
type Runner struct {
	invoker *compiling.Invoker
}

// NewRunner creates a pipeline runner around the given invoker.
func NewRunner(invoker *compiling.Invoker) *Runner {
	return &Runner{invoker: invoker}
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *Options, step, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message})
	}
}

// Run executes format, generate, assemble, and compile for one resume.
// Expected failures (no LaTeX processor on the host, a compile error) are
// folded into the result with the generated source still present, so the
// caller always has a usable fallback. A template placeholder mismatch is a
// configuration defect and is returned as an error.
func (r *Runner) Run(ctx context.Context, raw types.ParsedResume, opts Options) (*types.PipelineResult, error) {
	fmt.Printf("Step 1/4: Normalizing resume fields...\n")
	if opts.TargetRole != "" && opts.Verbose {
		fmt.Printf("[VERBOSE] Target role: %s\n", opts.TargetRole)
	}
	canonical := rendering.Format(raw)
	metadata := types.MetadataFor(canonical)
	emitProgress(&opts, StepFormat, fmt.Sprintf("normalized resume for %q", canonical.Name))

	fmt.Printf("Step 2/4: Generating document sections...\n")
	fragments := rendering.SectionFragments(canonical)
	emitProgress(&opts, StepGenerate, fmt.Sprintf("generated %d section fragments", len(fragments)))

	fmt.Printf("Step 3/4: Assembling document...\n")
	template := opts.Template
	if template == "" {
		template = rendering.DefaultTemplate()
	}
	document, err := rendering.Assemble(template, fragments)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, StepAssemble, fmt.Sprintf("assembled document (%d bytes)", len(document)))

	result := &types.PipelineResult{
		Success:        true,
		DocumentSource: document,
		Metadata:       metadata,
	}

	fmt.Printf("Step 4/4: Compiling document to PDF...\n")
	workDir := opts.WorkDir
	if workDir == "" {
		tempDir, tempErr := os.MkdirTemp("", "career-match-*")
		if tempErr != nil {
			result.Reason = fmt.Sprintf("failed to create working directory: %v", tempErr)
			return result, nil
		}
		defer os.RemoveAll(tempDir)
		workDir = tempDir
	}

	artifact, err := r.invoker.Compile(ctx, document, workDir)
	if err != nil {
		var unavailable *compiling.UnavailableError
		if errors.As(err, &unavailable) {
			fmt.Printf("Warning: LaTeX processor not found, returning source only\n")
			result.Reason = unavailable.Reason()
			emitProgress(&opts, StepCompile, "processor not found, returning source only")
			return result, nil
		}
		var compErr *compiling.CompilationError
		if errors.As(err, &compErr) {
			logExcerpt := compErr.LogOutput
			if len(logExcerpt) > 500 {
				logExcerpt = logExcerpt[:500]
			}
			fmt.Printf("Warning: compilation failed: %s\n", logExcerpt)
			result.Reason = compErr.Message
			emitProgress(&opts, StepCompile, "compilation failed, returning source only")
			return result, nil
		}
		return nil, err
	}

	result.ArtifactBase64 = base64.StdEncoding.EncodeToString(artifact.PDF)
	result.ArtifactAvailable = true
	emitProgress(&opts, StepCompile, fmt.Sprintf("compiled PDF (%d bytes)", len(artifact.PDF)))
	return result, nil
}
