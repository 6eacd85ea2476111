package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ShayCichocki/foiabuddy/internal/docsource"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// maxChunks caps how many text chunks the researcher hands downstream.
const maxChunks = 20

// ResearcherAgent searches the text corpus (markdown and plain-text files,
// plus any text the parser extracted) for passages relevant to the request.
// Relevance is keyword scoring over paragraph chunks.
type ResearcherAgent struct {
	source docsource.Provider
}

// NewResearcherAgent creates a researcher agent over the given corpus.
func NewResearcherAgent(source docsource.Provider) *ResearcherAgent {
	return &ResearcherAgent{source: source}
}

// Name implements Agent.
func (a *ResearcherAgent) Name() string { return RoleResearcher }

// Capabilities implements Agent.
func (a *ResearcherAgent) Capabilities() []string {
	return []string{"document_search", "relevance_ranking", "text_chunking"}
}

// DependsOn implements Agent. Parser output enriches the search corpus
// when present but is not required.
func (a *ResearcherAgent) DependsOn() []string { return []string{RoleParser} }

type chunk struct {
	Source string
	Text   string
	Score  int
}

// Execute implements Agent.
func (a *ResearcherAgent) Execute(ctx context.Context, task models.Task, events Sink) models.AgentResult {
	start := time.Now()

	if task.Text == "" {
		return models.Failure(a.Name(), models.ErrInputInvalid, "task has no request text")
	}

	weights := keywordSet(task.Topics, task.Text)

	chunks, searched, err := a.corpusChunks(ctx, weights)
	if err != nil {
		if ctx.Err() != nil {
			return models.Failure(a.Name(), models.ErrTimeout, "corpus search cancelled: "+err.Error())
		}
		return models.Failure(a.Name(), models.ErrInternal, "search corpus: "+err.Error())
	}

	// Fold in text the parser extracted from PDFs, when available.
	parsed := 0
	if prior := task.PriorOutput(RoleParser); prior != nil {
		if docs, ok := prior["documents"].([]any); ok {
			for _, d := range docs {
				m, ok := d.(models.Payload)
				if !ok {
					continue
				}
				path, _ := m["path"].(string)
				text, _ := m["text"].(string)
				if text == "" {
					continue
				}
				parsed++
				chunks = append(chunks, scoreChunks(path, text, weights)...)
			}
		}
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].Score != chunks[j].Score {
			return chunks[i].Score > chunks[j].Score
		}
		if chunks[i].Source != chunks[j].Source {
			return chunks[i].Source < chunks[j].Source
		}
		return chunks[i].Text < chunks[j].Text
	})

	var relevant []any
	for _, c := range chunks {
		if c.Score == 0 || len(relevant) >= maxChunks {
			break
		}
		relevant = append(relevant, models.Payload{
			"source": c.Source,
			"text":   c.Text,
			"score":  c.Score,
		})
	}

	emit(events, a.Name(), models.ReasoningProgress,
		fmt.Sprintf("searched %d text documents and %d parsed PDFs, kept %d relevant passages",
			searched, parsed, len(relevant)))

	return models.Success(a.Name(), models.Payload{
		"chunks":         relevant,
		"docs_searched":  searched,
		"parsed_sources": parsed,
	}, models.ResultMetadata{Elapsed: time.Since(start)})
}

// corpusChunks scores every paragraph of every text document in the corpus.
func (a *ResearcherAgent) corpusChunks(ctx context.Context, weights map[string]int) ([]chunk, int, error) {
	docs, err := a.source.List(ctx, "")
	if err != nil {
		return nil, 0, err
	}

	var chunks []chunk
	searched := 0
	for _, d := range docs {
		if d.Ext != ".md" && d.Ext != ".txt" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, searched, err
		}

		data, err := a.source.Read(ctx, d)
		if err != nil {
			return nil, searched, err
		}
		searched++
		chunks = append(chunks, scoreChunks(d.Path, string(data), weights)...)
	}
	return chunks, searched, nil
}

// scoreChunks splits text into paragraph chunks and scores each one.
func scoreChunks(source, text string, weights map[string]int) []chunk {
	var chunks []chunk
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		chunks = append(chunks, chunk{
			Source: source,
			Text:   para,
			Score:  scoreText(para, weights),
		})
	}
	return chunks
}
