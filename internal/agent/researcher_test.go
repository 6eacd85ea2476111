package agent

import (
	"context"
	"testing"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

func TestResearcherFindsRelevantChunks(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"/corpus/minutes.md": "Unrelated opening paragraph.\n\nThe budget for road repair doubled this year.",
		"/corpus/other.txt":  "Nothing of interest here.",
		"/corpus/scan.pdf":   "binary, skipped by researcher",
	}}

	a := NewResearcherAgent(src)
	task := models.Task{
		Text:   "records about the road repair budget",
		Topics: []string{"budget"},
	}

	res := a.Execute(context.Background(), task, nil)
	if !res.OK() {
		t.Fatalf("expected success, got %s: %s", res.ErrKind, res.Message)
	}

	if res.Payload["docs_searched"] != 2 {
		t.Errorf("expected 2 text docs searched, got %v", res.Payload["docs_searched"])
	}

	chunks := res.Payload["chunks"].([]any)
	if len(chunks) == 0 {
		t.Fatal("expected at least one relevant chunk")
	}
	top := chunks[0].(models.Payload)
	if top["source"] != "/corpus/minutes.md" {
		t.Errorf("expected top chunk from minutes.md, got %v", top["source"])
	}
}

func TestResearcherUsesParserOutput(t *testing.T) {
	src := &fakeSource{files: map[string]string{}}
	a := NewResearcherAgent(src)

	task := models.Task{
		Text:   "budget records",
		Topics: []string{"budget"},
		PriorOutputs: map[string]models.Payload{
			RoleParser: {
				"documents": []any{
					models.Payload{
						"path": "/corpus/report.pdf",
						"text": "The annual budget was approved.\n\nAttendance was low.",
					},
				},
			},
		},
	}

	res := a.Execute(context.Background(), task, nil)
	if !res.OK() {
		t.Fatalf("expected success, got %s", res.Message)
	}
	if res.Payload["parsed_sources"] != 1 {
		t.Errorf("expected 1 parsed source, got %v", res.Payload["parsed_sources"])
	}

	chunks := res.Payload["chunks"].([]any)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 relevant chunk, got %d", len(chunks))
	}
	top := chunks[0].(models.Payload)
	if top["source"] != "/corpus/report.pdf" {
		t.Errorf("expected chunk sourced from parsed PDF, got %v", top["source"])
	}
}

func TestResearcherEmptyRequestText(t *testing.T) {
	a := NewResearcherAgent(&fakeSource{files: map[string]string{}})
	res := a.Execute(context.Background(), models.Task{}, nil)
	if res.OK() || res.ErrKind != models.ErrInputInvalid {
		t.Errorf("expected input_invalid failure, got %+v", res)
	}
}
