package orchestrator

import (
	"reflect"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(succeeding("discovery"))
	r.Register(succeeding("parser", "discovery"))

	if r.Count() != 2 {
		t.Errorf("expected 2 agents, got %d", r.Count())
	}

	a, ok := r.Get("discovery")
	if !ok || a.Name() != "discovery" {
		t.Errorf("Get(discovery) = %v, %v", a, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should report absence")
	}
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	first := succeeding("discovery")
	second := succeeding("discovery")
	r.Register(first)
	r.Register(second)

	if r.Count() != 1 {
		t.Fatalf("expected 1 agent after re-registration, got %d", r.Count())
	}
	got, _ := r.Get("discovery")
	if got != second {
		t.Error("expected the later registration to win")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(succeeding("synthesizer"))
	r.Register(succeeding("discovery"))
	r.Register(succeeding("parser"))

	want := []string{"discovery", "parser", "synthesizer"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistryDependsOn(t *testing.T) {
	r := NewRegistry()
	r.Register(succeeding("discovery"))
	r.Register(succeeding("parser", "discovery"))

	deps := r.DependsOn()
	if !reflect.DeepEqual(deps["parser"], []string{"discovery"}) {
		t.Errorf("unexpected parser deps: %v", deps["parser"])
	}
	if len(deps["discovery"]) != 0 {
		t.Errorf("unexpected discovery deps: %v", deps["discovery"])
	}
}
