// Package compiling locates the host's LaTeX processor and turns rendered
// documents into PDF artifacts.
package compiling

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTimeout bounds a single pdflatex pass.
	DefaultTimeout = 60 * time.Second

	// documentBaseName is the file name the rendered document is written
	// under inside the working directory.
	documentBaseName = "generated_resume"

	processorName = "pdflatex"
)

// Config controls how the invoker resolves and runs the LaTeX processor.
type Config struct {
	// OverridePath points directly at a pdflatex executable. When set and
	// present it wins over every other resolution step.
	OverridePath string

	// SearchPaths are probed, in order, after PATH lookup fails. Entries may
	// be executable paths or directories containing the executable.
	// A nil slice means DefaultSearchPaths(); an empty slice disables probing.
	SearchPaths []string

	// Timeout bounds each compilation pass. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultSearchPaths returns the known install locations probed when the
// processor is not on PATH: MiKTeX on Windows, TeX Live elsewhere.
func DefaultSearchPaths() []string {
	return []string{
		`C:\Program Files\MiKTeX\miktex\bin\x64`,
		`C:\Program Files (x86)\MiKTeX\miktex\bin\x64`,
		`C:\Program Files\MiKTeX\miktex\bin`,
		`C:\Program Files (x86)\MiKTeX\miktex\bin`,
		"/usr/local/texlive/bin/x86_64-linux",
		"/usr/local/bin",
		"/usr/bin",
		"/Library/TeX/texbin",
	}
}

// Artifact is the product of a successful compilation.
type Artifact struct {
	// PDF holds the compiled document bytes.
	PDF []byte
	// Path is the location of the PDF inside the working directory.
	Path string
	// LogOutput is the combined processor output from both passes.
	LogOutput string
}

// Invoker resolves the LaTeX processor once and compiles documents with it.
// Resolution is lazy and memoized for the lifetime of the invoker; the
// server shares a single invoker across requests.
type Invoker struct {
	cfg Config

	resolveOnce sync.Once
	resolved    string
}

// NewInvoker returns an invoker with defaults applied to the configuration.
func NewInvoker(cfg Config) *Invoker {
	if cfg.SearchPaths == nil {
		cfg.SearchPaths = DefaultSearchPaths()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Invoker{cfg: cfg}
}

// Resolve returns the processor executable path, or an empty string when no
// processor is installed. The lookup runs once; concurrent callers share the
// first result.
func (inv *Invoker) Resolve() string {
	inv.resolveOnce.Do(func() {
		inv.resolved = inv.locate()
	})
	return inv.resolved
}

func (inv *Invoker) locate() string {
	if inv.cfg.OverridePath != "" {
		if info, err := os.Stat(inv.cfg.OverridePath); err == nil && !info.IsDir() {
			return inv.cfg.OverridePath
		}
	}

	if path, err := exec.LookPath(processorName); err == nil {
		return path
	}

	for _, candidate := range inv.cfg.SearchPaths {
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			return candidate
		}
		for _, name := range executableNames() {
			probe := filepath.Join(candidate, name)
			if probeInfo, err := os.Stat(probe); err == nil && !probeInfo.IsDir() {
				return probe
			}
		}
	}
	return ""
}

func executableNames() []string {
	if runtime.GOOS == "windows" {
		return []string{processorName + ".exe", processorName}
	}
	return []string{processorName, processorName + ".exe"}
}

// Compile writes the document into workDir and runs the processor against it
// twice, so cross-references resolved in the first pass render in the second.
// A non-zero exit on the first pass is tolerated; a failure to launch, a
// timeout, or a non-zero exit on the second pass aborts. Success requires a
// clean final exit and the PDF present on disk. Every write stays inside
// workDir. When no processor is resolvable, Compile returns an
// UnavailableError before touching the filesystem.
func (inv *Invoker) Compile(ctx context.Context, document string, workDir string) (*Artifact, error) {
	processor := inv.Resolve()
	if processor == "" {
		return nil, &UnavailableError{Message: "processor not found"}
	}

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, &CompilationError{
			Message: fmt.Sprintf("failed to create working directory: %s", workDir),
			Cause:   err,
		}
	}

	texPath := filepath.Join(workDir, documentBaseName+".tex")
	if err := os.WriteFile(texPath, []byte(document), 0644); err != nil {
		return nil, &CompilationError{
			Message: "failed to write document to working directory",
			Cause:   err,
		}
	}

	var combinedLog strings.Builder
	for pass := 1; pass <= 2; pass++ {
		runCtx, cancel := context.WithTimeout(ctx, inv.cfg.Timeout)
		cmd := exec.CommandContext(runCtx, processor,
			"-interaction=nonstopmode",
			"-halt-on-error",
			"-output-directory", workDir,
			texPath,
		)
		cmd.Dir = workDir

		var stdout, stderr strings.Builder
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		runErr := cmd.Run()
		ctxErr := runCtx.Err()
		cancel()

		combinedLog.WriteString(stdout.String())
		combinedLog.WriteString(stderr.String())

		if runErr == nil {
			continue
		}

		if errors.Is(ctxErr, context.DeadlineExceeded) || errors.Is(ctxErr, context.Canceled) {
			return nil, &CompilationError{
				Message:   fmt.Sprintf("compilation timed out after %s on pass %d", inv.cfg.Timeout, pass),
				LogOutput: combinedLog.String(),
				Cause:     runErr,
			}
		}

		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, &CompilationError{
				Message:   "failed to run LaTeX processor",
				LogOutput: combinedLog.String(),
				Cause:     runErr,
			}
		}

		// Pass-one exit errors are often recoverable warnings; the second
		// pass decides.
		if pass == 2 {
			return nil, &CompilationError{
				Message:   "LaTeX compilation failed",
				LogOutput: combinedLog.String(),
				Cause:     runErr,
			}
		}
	}

	pdfPath := filepath.Join(workDir, documentBaseName+".pdf")
	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: combinedLog.String(),
			Cause:     err,
		}
	}

	return &Artifact{
		PDF:       pdfBytes,
		Path:      pdfPath,
		LogOutput: combinedLog.String(),
	}, nil
}

// CleanupArtifacts removes the auxiliary files pdflatex leaves next to the
// output. Used when compiling into a caller-owned directory; request-scoped
// temp directories are removed wholesale instead.
func CleanupArtifacts(workDir string) {
	if workDir == "" {
		return
	}
	auxExtensions := []string{".aux", ".log", ".out", ".toc", ".lof", ".lot"}
	for _, ext := range auxExtensions {
		_ = os.Remove(filepath.Join(workDir, documentBaseName+ext))
	}
}
