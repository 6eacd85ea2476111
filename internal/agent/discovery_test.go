package agent

import (
	"context"
	"testing"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

func TestDiscoveryFindsRelevantPDFs(t *testing.T) {
	src := &fakeSource{files: map[string]string{
		"/corpus/budget_2024.pdf":  "pdf",
		"/corpus/minutes.pdf":      "pdf",
		"/corpus/readme.md":        "text",
		"/corpus/old/expenses.pdf": "pdf",
	}}

	a := NewDiscoveryAgent(src)
	task := models.Task{
		RequestID: "r1",
		Agent:     RoleDiscovery,
		Text:      "find budget documents",
		Topics:    []string{"budget"},
	}

	res := a.Execute(context.Background(), task, nil)
	if !res.OK() {
		t.Fatalf("expected success, got %s: %s", res.ErrKind, res.Message)
	}

	if res.Payload["pdfs_found"] != 3 {
		t.Errorf("expected 3 PDFs, got %v", res.Payload["pdfs_found"])
	}
	if res.Payload["total_scanned"] != 4 {
		t.Errorf("expected 4 scanned, got %v", res.Payload["total_scanned"])
	}

	docs := res.Payload["documents"].([]any)
	first := docs[0].(models.Payload)
	if first["name"] != "budget_2024.pdf" {
		t.Errorf("expected budget PDF ranked first, got %v", first["name"])
	}
	if first["score"].(int) <= 0 {
		t.Errorf("expected positive score for budget PDF, got %v", first["score"])
	}
}

func TestDiscoveryEmptyRequestText(t *testing.T) {
	a := NewDiscoveryAgent(&fakeSource{files: map[string]string{}})

	res := a.Execute(context.Background(), models.Task{Agent: RoleDiscovery}, nil)
	if res.OK() {
		t.Fatal("expected failure for empty request text")
	}
	if res.ErrKind != models.ErrInputInvalid {
		t.Errorf("expected input_invalid, got %s", res.ErrKind)
	}
}

func TestDiscoveryEmitsProgress(t *testing.T) {
	src := &fakeSource{files: map[string]string{"/corpus/a.pdf": "pdf"}}
	a := NewDiscoveryAgent(src)

	var events []models.ReasoningEvent
	sink := func(e models.ReasoningEvent) { events = append(events, e) }

	res := a.Execute(context.Background(), models.Task{Text: "anything"}, sink)
	if !res.OK() {
		t.Fatalf("expected success, got %s", res.Message)
	}
	if len(events) == 0 {
		t.Error("expected at least one reasoning event")
	}
	for _, e := range events {
		if e.Agent != RoleDiscovery {
			t.Errorf("expected events attributed to discovery, got %s", e.Agent)
		}
	}
}
