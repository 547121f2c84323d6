package handoff

import (
	"reflect"
	"testing"

	"github.com/dhr613/Location-QA-Assistant/internal/amap"
	"github.com/dhr613/Location-QA-Assistant/internal/worker"
)

func testCatalog(t *testing.T) *worker.Catalog {
	t.Helper()
	client, err := amap.NewClient("test-key")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return worker.NewCatalog(client)
}

func TestStepsController_StageWiring(t *testing.T) {
	c, err := NewStepsController(&fakeModel{}, testCatalog(t), 0, nil)
	if err != nil {
		t.Fatalf("NewStepsController() error = %v", err)
	}

	tests := []struct {
		stage Stage
		want  []string
	}{
		{StageGeocode, []string{"geocode", "proceed_to_route"}},
		{StageRoute, []string{"driving_route", "walking_route", "back_to_geocode", "go_to_nearby"}},
		{StageNearby, []string{"around_search", "back_to_route", "back_to_geocode"}},
	}
	for _, tt := range tests {
		sc, ok := c.cfg.Stages[tt.stage]
		if !ok {
			t.Errorf("stage %q not configured", tt.stage)
			continue
		}
		if got := sc.Capabilities.Names(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("stage %q capabilities = %v, want %v", tt.stage, got, tt.want)
		}
	}
}

func TestDelegateController_Builds(t *testing.T) {
	c, err := NewDelegateController(&fakeModel{}, testCatalog(t), 0, nil)
	if err != nil {
		t.Fatalf("NewDelegateController() error = %v", err)
	}
	main, ok := c.cfg.Stages[StageMain]
	if !ok {
		t.Fatal("main stage not configured")
	}
	if got := main.Capabilities.Names(); !reflect.DeepEqual(got, []string{"jump_to_nearby", "jump_to_route"}) {
		t.Errorf("main capabilities = %v", got)
	}
}

func TestVariants_TurnBudgetFlowsThrough(t *testing.T) {
	steps, err := NewStepsController(&fakeModel{}, testCatalog(t), 5, nil)
	if err != nil {
		t.Fatalf("NewStepsController() error = %v", err)
	}
	if steps.cfg.MaxTurns != 5 {
		t.Errorf("steps MaxTurns = %d, want 5", steps.cfg.MaxTurns)
	}

	delegate, err := NewDelegateController(&fakeModel{}, testCatalog(t), 5, nil)
	if err != nil {
		t.Fatalf("NewDelegateController() error = %v", err)
	}
	if delegate.cfg.MaxTurns != 5 {
		t.Errorf("delegate MaxTurns = %d, want 5", delegate.cfg.MaxTurns)
	}

	graph, err := NewTravelGraph(&fakeModel{}, testCatalog(t), 5, nil)
	if err != nil {
		t.Fatalf("NewTravelGraph() error = %v", err)
	}
	if graph.cfg.MaxPasses != 5 {
		t.Errorf("graph MaxPasses = %d, want 5", graph.cfg.MaxPasses)
	}

	// zero keeps the defaults
	steps, err = NewStepsController(&fakeModel{}, testCatalog(t), 0, nil)
	if err != nil {
		t.Fatalf("NewStepsController() error = %v", err)
	}
	if steps.cfg.MaxTurns != 16 {
		t.Errorf("steps default MaxTurns = %d, want 16", steps.cfg.MaxTurns)
	}
}

func TestTravelGraph_Builds(t *testing.T) {
	g, err := NewTravelGraph(&fakeModel{}, testCatalog(t), 0, nil)
	if err != nil {
		t.Fatalf("NewTravelGraph() error = %v", err)
	}
	around, ok := g.nodes[NodeAround]
	if !ok {
		t.Fatal("around node missing")
	}
	if _, ok := around.Capabilities.Get("transfer_to_path"); !ok {
		t.Error("around node has no transfer capability")
	}
}
