package agent

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ShayCichocki/foiabuddy/internal/docsource"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// DiscoveryAgent searches the document corpus for PDF files relevant to
// the request topics. It scores candidates by keyword hits in the file
// name and path; the exact matching strategy is an internal detail of
// this agent, invisible to the coordinator.
type DiscoveryAgent struct {
	source docsource.Provider
	// maxResults caps how many documents are handed downstream.
	maxResults int
}

// NewDiscoveryAgent creates a discovery agent over the given corpus.
func NewDiscoveryAgent(source docsource.Provider) *DiscoveryAgent {
	return &DiscoveryAgent{
		source:     source,
		maxResults: 25,
	}
}

// Name implements Agent.
func (a *DiscoveryAgent) Name() string { return RoleDiscovery }

// Capabilities implements Agent.
func (a *DiscoveryAgent) Capabilities() []string {
	return []string{"filesystem_search", "pdf_discovery", "relevance_ranking"}
}

// DependsOn implements Agent. Discovery runs first and consumes nothing.
func (a *DiscoveryAgent) DependsOn() []string { return nil }

// Execute implements Agent.
func (a *DiscoveryAgent) Execute(ctx context.Context, task models.Task, events Sink) models.AgentResult {
	start := time.Now()

	if task.Text == "" {
		return models.Failure(a.Name(), models.ErrInputInvalid, "task has no request text")
	}

	emit(events, a.Name(), models.ReasoningProgress, "scanning corpus for PDF documents")

	docs, err := a.source.List(ctx, "")
	if err != nil {
		if ctx.Err() != nil {
			return models.Failure(a.Name(), models.ErrTimeout, "corpus listing cancelled: "+err.Error())
		}
		return models.Failure(a.Name(), models.ErrInternal, "list corpus: "+err.Error())
	}

	weights := keywordSet(task.Topics, task.Text)

	type candidate struct {
		doc   docsource.Descriptor
		score int
	}
	var pdfs []candidate
	scanned := 0
	for _, d := range docs {
		scanned++
		if d.Ext != ".pdf" {
			continue
		}
		pdfs = append(pdfs, candidate{doc: d, score: scoreText(d.Path, weights)})
	}

	// Relevant documents first; ties broken by path for determinism.
	sort.SliceStable(pdfs, func(i, j int) bool {
		if pdfs[i].score != pdfs[j].score {
			return pdfs[i].score > pdfs[j].score
		}
		return pdfs[i].doc.Path < pdfs[j].doc.Path
	})

	matched := 0
	results := make([]any, 0, len(pdfs))
	for _, c := range pdfs {
		if len(results) >= a.maxResults {
			break
		}
		if c.score > 0 {
			matched++
		}
		results = append(results, models.Payload{
			"path":  c.doc.Path,
			"name":  c.doc.Name,
			"size":  c.doc.Size,
			"score": c.score,
		})
	}

	emit(events, a.Name(), models.ReasoningProgress,
		fmt.Sprintf("scanned %d files, found %d PDFs (%d keyword matches)", scanned, len(pdfs), matched))

	return models.Success(a.Name(), models.Payload{
		"documents":     results,
		"total_scanned": scanned,
		"pdfs_found":    len(pdfs),
		"matched":       matched,
	}, models.ResultMetadata{Elapsed: time.Since(start)})
}
