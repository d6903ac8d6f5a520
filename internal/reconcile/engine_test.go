package reconcile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yourusername/yabactl/internal/config"
	"github.com/yourusername/yabactl/internal/testutil"
	"github.com/yourusername/yabactl/internal/wm"
)

func defs(entries ...config.SpaceDef) []config.SpaceDef { return entries }

func TestNewEngineRejectsBadDefs(t *testing.T) {
	f := testutil.NewFakeYabai()

	_, err := NewEngine(f, defs(
		config.SpaceDef{Label: "1_files", Display: 1},
		config.SpaceDef{Label: "1_files", Display: 2},
	))
	if !errors.Is(err, wm.ErrInvalidConfig) {
		t.Fatalf("duplicate labels: expected ErrInvalidConfig, got %v", err)
	}

	_, err = NewEngine(f, defs(config.SpaceDef{Label: "  ", Display: 1}))
	if !errors.Is(err, wm.ErrInvalidConfig) {
		t.Fatalf("empty label: expected ErrInvalidConfig, got %v", err)
	}
}

func TestReconcileOverflowClampsToLastDisplay(t *testing.T) {
	f := testutil.NewFakeYabai()
	d1 := f.AddDisplay()
	d2 := f.AddDisplay()
	f.AddSpace(d1, "a_mail")
	f.AddSpace(d1, "b_www")
	f.AddSpace(d1, "c_code")
	f.AddSpace(d2, "d_media")

	engine, err := NewEngine(f, defs(
		config.SpaceDef{Label: "a_mail", Display: 1},
		config.SpaceDef{Label: "b_www", Display: 2},
		config.SpaceDef{Label: "c_code", Display: 1},
		config.SpaceDef{Label: "d_media", Display: 3},
	))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	result, err := engine.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// Display 3 is not connected: d_media is clamped to display 2.
	outcome := result.Outcome("d_media")
	if outcome == nil {
		t.Fatal("no outcome for d_media")
	}
	if outcome.TargetDisplay != 2 {
		t.Errorf("d_media target display = %d, want 2", outcome.TargetDisplay)
	}
	if outcome.Err != nil {
		t.Errorf("d_media: %v", outcome.Err)
	}

	// b_www was sent over and the sort pass put it before d_media.
	if got := f.Labels(d2); !reflect.DeepEqual(got, []string{"b_www", "d_media"}) {
		t.Errorf("display 2 = %v, want [b_www d_media]", got)
	}
	if outcome := result.Outcome("b_www"); outcome == nil || !outcome.Moved {
		t.Error("b_www should have moved to display 2")
	}
}

func TestReconcilePartialFailure(t *testing.T) {
	f := testutil.NewFakeYabai()
	d1 := f.AddDisplay()
	f.AddDisplay()
	f.AddSpace(d1, "a_mail")
	f.AddSpace(d1, "b_www")
	f.AddSpace(d1, "c_code")

	f.RejectDisplayMove = func(label string) bool { return label == "b_www" }

	engine, err := NewEngine(f, defs(
		config.SpaceDef{Label: "a_mail", Display: 1},
		config.SpaceDef{Label: "b_www", Display: 2},
		config.SpaceDef{Label: "c_code", Display: 2},
	))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	result, err := engine.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	failed := result.Outcome("b_www")
	if failed == nil || failed.Err == nil {
		t.Fatal("b_www should have a recorded failure")
	}
	if !errors.Is(failed.Err, wm.ErrRejected) {
		t.Errorf("b_www error = %v, want ErrRejected", failed.Err)
	}

	// The sibling move still happened.
	moved := result.Outcome("c_code")
	if moved == nil || moved.Err != nil || !moved.Moved {
		t.Errorf("c_code outcome = %+v, want successful move", moved)
	}
	if result.OK() {
		t.Error("result should not report OK")
	}
	if result.Err() == nil {
		t.Error("aggregate error should name the failed space")
	}
}

func TestReconcileAssignsLabelsInLiveOrder(t *testing.T) {
	// After a yabai restart every label is gone. The declared labels are
	// handed out in live arrangement order, even though that may not match
	// what the spaces used to be.
	f := testutil.NewFakeYabai()
	d1 := f.AddDisplay()
	f.AddSpace(d1, "")
	f.AddSpace(d1, "")
	f.AddSpace(d1, "")

	engine, err := NewEngine(f, defs(
		config.SpaceDef{Label: "1_files", Display: 1},
		config.SpaceDef{Label: "2_www", Display: 1},
		config.SpaceDef{Label: "3_office", Display: 1},
	))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	result, err := engine.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	want := []string{"1_files", "2_www", "3_office"}
	if got := f.Labels(d1); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	for _, label := range want {
		outcome := result.Outcome(label)
		if outcome == nil || !outcome.Relabeled {
			t.Errorf("%s: expected a relabel outcome, got %+v", label, outcome)
		}
	}
}

func TestReconcileSkipsHeldLabels(t *testing.T) {
	// One label survived; only the unused ones are handed out.
	f := testutil.NewFakeYabai()
	d1 := f.AddDisplay()
	f.AddSpace(d1, "2_www")
	f.AddSpace(d1, "")

	engine, err := NewEngine(f, defs(
		config.SpaceDef{Label: "1_files", Display: 1},
		config.SpaceDef{Label: "2_www", Display: 1},
	))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	if _, err := engine.Reconcile(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// The unlabeled space got 1_files, and the sort pass put it first.
	want := []string{"1_files", "2_www"}
	if got := f.Labels(d1); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestConvergeRelabelsDestroysCreates(t *testing.T) {
	f := testutil.NewFakeYabai()
	d1 := f.AddDisplay()
	f.AddSpace(d1, "a_mail")
	f.AddSpace(d1, "stale_one")
	f.AddSpace(d1, "stale_two")

	engine, err := NewEngine(f, defs(
		config.SpaceDef{Label: "a_mail", Display: 1},
		config.SpaceDef{Label: "b_www", Display: 1},
	))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	result, err := engine.Converge(context.Background())
	if err != nil {
		t.Fatalf("converge: %v", err)
	}
	if aggErr := result.Err(); aggErr != nil {
		t.Fatalf("converge outcomes: %v", aggErr)
	}

	// stale_one was recycled into b_www, stale_two destroyed.
	want := []string{"a_mail", "b_www"}
	if got := f.Labels(d1); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}

	relabeled := result.Outcome("b_www")
	if relabeled == nil || !relabeled.Relabeled {
		t.Errorf("b_www outcome = %+v, want relabel", relabeled)
	}
	destroyed := result.Outcome("stale_two")
	if destroyed == nil || !destroyed.Destroyed {
		t.Errorf("stale_two outcome = %+v, want destroy", destroyed)
	}
}

func TestConvergeCreatesMissingSpaces(t *testing.T) {
	f := testutil.NewFakeYabai()
	d1 := f.AddDisplay()
	f.AddSpace(d1, "a_mail")

	engine, err := NewEngine(f, defs(
		config.SpaceDef{Label: "a_mail", Display: 1},
		config.SpaceDef{Label: "b_www", Display: 1},
		config.SpaceDef{Label: "c_code", Display: 1},
	))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	result, err := engine.Converge(context.Background())
	if err != nil {
		t.Fatalf("converge: %v", err)
	}

	want := []string{"a_mail", "b_www", "c_code"}
	if got := f.Labels(d1); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	for _, label := range []string{"b_www", "c_code"} {
		outcome := result.Outcome(label)
		if outcome == nil || !outcome.Created {
			t.Errorf("%s outcome = %+v, want created", label, outcome)
		}
	}
}

func TestPrepareEndToEnd(t *testing.T) {
	f := testutil.NewFakeYabai()
	d1 := f.AddDisplay()
	d2 := f.AddDisplay()
	f.AddSpace(d1, "")
	f.AddSpace(d1, "junk")
	f.AddSpace(d2, "")

	engine, err := NewEngine(f, defs(
		config.SpaceDef{Label: "1_files", Display: 1},
		config.SpaceDef{Label: "2_www", Display: 1},
		config.SpaceDef{Label: "3_media", Display: 2},
	))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	result, err := engine.Prepare(context.Background())
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if aggErr := result.Err(); aggErr != nil {
		t.Fatalf("prepare outcomes: %v", aggErr)
	}

	for _, d := range []*testutil.FakeDisplay{d1, d2} {
		labels := f.Labels(d)
		for i := 1; i < len(labels); i++ {
			if labels[i-1] > labels[i] {
				t.Errorf("display %d out of order: %v", d.ID, labels)
			}
		}
	}

	all := append(f.Labels(d1), f.Labels(d2)...)
	seen := make(map[string]bool)
	for _, l := range all {
		seen[l] = true
	}
	for _, want := range []string{"1_files", "2_www", "3_media"} {
		if !seen[want] {
			t.Errorf("label %s missing after prepare; live = %v", want, all)
		}
	}
}

func TestClampDisplay(t *testing.T) {
	tests := []struct {
		preferred, connected, want int
	}{
		{1, 2, 1},
		{2, 2, 2},
		{3, 2, 2},
		{7, 1, 1},
		{0, 2, 1},
	}
	for _, tt := range tests {
		if got := clampDisplay(tt.preferred, tt.connected); got != tt.want {
			t.Errorf("clampDisplay(%d, %d) = %d, want %d", tt.preferred, tt.connected, got, tt.want)
		}
	}
}
