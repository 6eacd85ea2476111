package state

import (
	"testing"
	"time"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

func sampleBundle(requestID string) *models.ResultBundle {
	return &models.ResultBundle{
		RequestID: requestID,
		PlanID:    "plan-1",
		Status:    models.BundlePartial,
		Results: map[string]models.AgentResult{
			"discovery":   models.Success("discovery", models.Payload{"pdfs_found": 3}, models.ResultMetadata{}),
			"synthesizer": models.Failure("synthesizer", models.ErrProvider, "api unreachable"),
		},
		Decisions: []models.DecisionLogEntry{
			{Seq: 0, Timestamp: time.Now(), Actor: models.ActorCoordinator, Decision: "plan built with 2 stages"},
			{Seq: 1, Timestamp: time.Now(), Actor: "synthesizer", Decision: "failed with provider_error", Reasoning: "api unreachable"},
		},
		StartedAt: time.Now().Add(-time.Minute),
		Elapsed:   42 * time.Second,
	}
}

func TestSaveAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	req := models.NewRequest("records about the road repair budget")
	bundle := sampleBundle(req.ID)

	if err := db.SaveBundle(req, bundle, true); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	run, err := db.GetRun(req.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run == nil {
		t.Fatal("saved run not found")
	}
	if run.Status != models.BundlePartial || !run.Fallback {
		t.Errorf("unexpected run: %+v", run)
	}
	if run.RequestText != req.Text {
		t.Errorf("request text = %q", run.RequestText)
	}
	if run.Elapsed != 42*time.Second {
		t.Errorf("elapsed = %s", run.Elapsed)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	if run.Results["synthesizer"].ErrKind != models.ErrProvider {
		t.Errorf("failure kind lost in round trip: %+v", run.Results["synthesizer"])
	}
}

func TestGetRunMissing(t *testing.T) {
	db := setupTestDB(t)
	run, err := db.GetRun("no-such-request")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run != nil {
		t.Errorf("expected nil for missing run, got %+v", run)
	}
}

func TestSaveBundleReplacesEarlierRun(t *testing.T) {
	db := setupTestDB(t)
	req := models.NewRequest("budget records")

	first := sampleBundle(req.ID)
	if err := db.SaveBundle(req, first, false); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	second := sampleBundle(req.ID)
	second.Status = models.BundleCompleted
	second.Decisions = second.Decisions[:1]
	if err := db.SaveBundle(req, second, false); err != nil {
		t.Fatalf("second SaveBundle: %v", err)
	}

	run, err := db.GetRun(req.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != models.BundleCompleted {
		t.Errorf("expected the later save to win, got %s", run.Status)
	}

	decisions, err := db.GetDecisions(req.ID)
	if err != nil {
		t.Fatalf("GetDecisions: %v", err)
	}
	if len(decisions) != 1 {
		t.Errorf("expected replaced decisions, got %d entries", len(decisions))
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	for i, started := range []time.Time{
		time.Now().Add(-2 * time.Hour),
		time.Now().Add(-1 * time.Hour),
		time.Now(),
	} {
		req := models.NewRequest("request")
		bundle := sampleBundle(req.ID)
		bundle.StartedAt = started
		if err := db.SaveBundle(req, bundle, false); err != nil {
			t.Fatalf("SaveBundle %d: %v", i, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs with limit, got %d", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Error("runs must be ordered newest first")
	}
}

func TestDecisionOrderPreserved(t *testing.T) {
	db := setupTestDB(t)
	req := models.NewRequest("budget records")
	if err := db.SaveBundle(req, sampleBundle(req.ID), false); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	decisions, err := db.GetDecisions(req.ID)
	if err != nil {
		t.Fatalf("GetDecisions: %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(decisions))
	}
	for i, d := range decisions {
		if d.Seq != i {
			t.Errorf("decision %d has seq %d", i, d.Seq)
		}
	}
	if decisions[1].Reasoning != "api unreachable" {
		t.Errorf("reasoning lost: %+v", decisions[1])
	}
}

func TestDeleteRunCascades(t *testing.T) {
	db := setupTestDB(t)
	req := models.NewRequest("budget records")
	if err := db.SaveBundle(req, sampleBundle(req.ID), false); err != nil {
		t.Fatalf("SaveBundle: %v", err)
	}

	if err := db.DeleteRun(req.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}

	run, err := db.GetRun(req.ID)
	if err != nil || run != nil {
		t.Errorf("run should be gone, got %+v, %v", run, err)
	}
	decisions, err := db.GetDecisions(req.ID)
	if err != nil {
		t.Fatalf("GetDecisions: %v", err)
	}
	if len(decisions) != 0 {
		t.Errorf("decisions should cascade on delete, got %d", len(decisions))
	}
}
