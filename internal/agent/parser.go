package agent

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/ShayCichocki/foiabuddy/internal/docsource"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// maxExtractChars bounds how much text is carried per parsed document so
// one enormous PDF cannot dominate downstream prompts.
const maxExtractChars = 20000

// ParserAgent extracts plain text from PDF documents. It prefers the
// document list produced by the discovery agent; without one it falls back
// to scanning the corpus itself, so a failed discovery stage degrades the
// run instead of cascading.
type ParserAgent struct {
	source docsource.Provider
}

// NewParserAgent creates a parser agent over the given corpus.
func NewParserAgent(source docsource.Provider) *ParserAgent {
	return &ParserAgent{source: source}
}

// Name implements Agent.
func (a *ParserAgent) Name() string { return RoleParser }

// Capabilities implements Agent.
func (a *ParserAgent) Capabilities() []string {
	return []string{"pdf_parsing", "text_extraction"}
}

// DependsOn implements Agent.
func (a *ParserAgent) DependsOn() []string { return []string{RoleDiscovery} }

// Execute implements Agent.
func (a *ParserAgent) Execute(ctx context.Context, task models.Task, events Sink) models.AgentResult {
	start := time.Now()

	if task.Text == "" {
		return models.Failure(a.Name(), models.ErrInputInvalid, "task has no request text")
	}

	paths, err := a.candidatePaths(ctx, task, events)
	if err != nil {
		if ctx.Err() != nil {
			return models.Failure(a.Name(), models.ErrTimeout, "candidate scan cancelled: "+err.Error())
		}
		return models.Failure(a.Name(), models.ErrInternal, "locate PDFs: "+err.Error())
	}
	if len(paths) == 0 {
		// Nothing to parse is a valid outcome, not an error.
		return models.Success(a.Name(), models.Payload{
			"documents": []any{},
			"parsed":    0,
			"failed":    0,
		}, models.ResultMetadata{Elapsed: time.Since(start)})
	}

	var parsed []any
	var failures []any
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return models.Failure(a.Name(), models.ErrTimeout,
				fmt.Sprintf("cancelled after %d of %d documents", i, len(paths)))
		}

		text, pages, err := extractPDFText(path)
		if err != nil {
			// One bad PDF must not fail the whole agent.
			failures = append(failures, models.Payload{"path": path, "error": err.Error()})
			emit(events, a.Name(), models.ReasoningWarning, fmt.Sprintf("skipping %s: %v", path, err))
			continue
		}
		parsed = append(parsed, models.Payload{
			"path":  path,
			"pages": pages,
			"chars": len(text),
			"text":  text,
		})
		emit(events, a.Name(), models.ReasoningProgress,
			fmt.Sprintf("parsed %d of %d documents", i+1, len(paths)))
	}

	return models.Success(a.Name(), models.Payload{
		"documents": parsed,
		"errors":    failures,
		"parsed":    len(parsed),
		"failed":    len(failures),
	}, models.ResultMetadata{Elapsed: time.Since(start)})
}

// candidatePaths returns the PDF paths to parse, preferring discovery output.
func (a *ParserAgent) candidatePaths(ctx context.Context, task models.Task, events Sink) ([]string, error) {
	if prior := task.PriorOutput(RoleDiscovery); prior != nil {
		if docs, ok := prior["documents"].([]any); ok {
			var paths []string
			for _, d := range docs {
				if m, ok := d.(models.Payload); ok {
					if p, ok := m["path"].(string); ok {
						paths = append(paths, p)
					}
				}
			}
			return paths, nil
		}
	}

	emit(events, a.Name(), models.ReasoningWarning, "no discovery output, scanning corpus directly")

	docs, err := a.source.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, d := range docs {
		if d.Ext == ".pdf" {
			paths = append(paths, d.Path)
		}
	}
	return paths, nil
}

// extractPDFText pulls plain text from a PDF file, truncated to
// maxExtractChars.
func extractPDFText(path string) (string, int, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	var buf bytes.Buffer
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, err
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", 0, err
	}

	return truncate(buf.String(), maxExtractChars), reader.NumPage(), nil
}
