package reconcile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/yourusername/yabactl/internal/entity"
	"github.com/yourusername/yabactl/internal/selector"
	"github.com/yourusername/yabactl/internal/testutil"
	"github.com/yourusername/yabactl/internal/wm"
)

func displayHandle(t *testing.T, f *testutil.FakeYabai, index int) *entity.Display {
	t.Helper()
	d, err := entity.DisplayFromSelector(context.Background(), f, selector.Index(index))
	if err != nil {
		t.Fatalf("display handle: %v", err)
	}
	return d
}

func TestSortRestoresLabelOrder(t *testing.T) {
	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	f.AddSpace(d, "3_terminal")
	f.AddSpace(d, "1_files")
	f.AddSpace(d, "2_www")

	moves, err := Sort(context.Background(), f, displayHandle(t, f, 1))
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if moves != 2 {
		t.Errorf("expected exactly 2 moves, got %d", moves)
	}
	if f.MoveCount != 2 {
		t.Errorf("expected exactly 2 move commands on the gateway, got %d", f.MoveCount)
	}

	want := []string{"1_files", "2_www", "3_terminal"}
	if got := f.Labels(d); !reflect.DeepEqual(got, want) {
		t.Errorf("live order = %v, want %v", got, want)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	f.AddSpace(d, "2_www")
	f.AddSpace(d, "3_office")
	f.AddSpace(d, "1_files")

	ctx := context.Background()
	handle := displayHandle(t, f, 1)

	if _, err := Sort(ctx, f, handle); err != nil {
		t.Fatalf("first sort: %v", err)
	}

	before := f.MoveCount
	moves, err := Sort(ctx, f, handle)
	if err != nil {
		t.Fatalf("second sort: %v", err)
	}
	if moves != 0 {
		t.Errorf("second sort issued %d moves, want 0", moves)
	}
	if f.MoveCount != before {
		t.Errorf("second sort sent %d move commands, want 0", f.MoveCount-before)
	}
}

func TestSortBoundedByMemberCount(t *testing.T) {
	// Worst case permutation: strictly descending labels.
	labels := []string{"9_media", "8_email", "7_teams", "6_misc", "5_vscode", "4_terminal", "3_office", "2_www", "1_files"}

	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	for _, l := range labels {
		f.AddSpace(d, l)
	}

	moves, err := Sort(context.Background(), f, displayHandle(t, f, 1))
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if moves > len(labels) {
		t.Errorf("sort issued %d moves for %d members", moves, len(labels))
	}

	want := []string{"1_files", "2_www", "3_office", "4_terminal", "5_vscode", "6_misc", "7_teams", "8_email", "9_media"}
	if got := f.Labels(d); !reflect.DeepEqual(got, want) {
		t.Errorf("live order = %v, want %v", got, want)
	}
}

func TestSortEmptyLabelsSortLast(t *testing.T) {
	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	f.AddSpace(d, "")
	f.AddSpace(d, "2_www")
	f.AddSpace(d, "")
	f.AddSpace(d, "1_files")

	if _, err := Sort(context.Background(), f, displayHandle(t, f, 1)); err != nil {
		t.Fatalf("sort: %v", err)
	}

	want := []string{"1_files", "2_www", "", ""}
	if got := f.Labels(d); !reflect.DeepEqual(got, want) {
		t.Errorf("live order = %v, want %v", got, want)
	}
}

func TestSortSingleAndEmptyDisplayNoCommands(t *testing.T) {
	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	f.AddSpace(d, "1_files")

	moves, err := Sort(context.Background(), f, displayHandle(t, f, 1))
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	if moves != 0 || f.MoveCount != 0 {
		t.Errorf("expected no moves for single member, got %d", f.MoveCount)
	}
}

func TestSortRefusedMoveIsUnreconcilable(t *testing.T) {
	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	f.AddSpace(d, "2_www")
	f.AddSpace(d, "1_files")
	f.RejectMove = func(label string) bool { return true }

	_, err := Sort(context.Background(), f, displayHandle(t, f, 1))
	if !errors.Is(err, wm.ErrUnreconcilable) {
		t.Fatalf("expected ErrUnreconcilable, got %v", err)
	}
}

func TestSortScramblingManagerStops(t *testing.T) {
	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	f.AddSpace(d, "3_office")
	f.AddSpace(d, "2_www")
	f.AddSpace(d, "1_files")

	// Undo every move: the manager reverts to the original order each time.
	f.AfterMove = func(f *testutil.FakeYabai) {
		d.Spaces[0], d.Spaces[2] = d.Spaces[2], d.Spaces[0]
		f.AfterMove = func(f *testutil.FakeYabai) {
			d.Spaces[0], d.Spaces[2] = d.Spaces[2], d.Spaces[0]
		}
	}

	_, err := Sort(context.Background(), f, displayHandle(t, f, 1))
	if !errors.Is(err, wm.ErrUnreconcilable) && !errors.Is(err, wm.ErrReconcileTimeout) {
		t.Fatalf("expected an unreconcilable or timeout error, got %v", err)
	}
}

func TestCheckSorted(t *testing.T) {
	f := testutil.NewFakeYabai()
	d := f.AddDisplay()
	f.AddSpace(d, "2_www")
	f.AddSpace(d, "1_files")

	ctx := context.Background()
	handle := displayHandle(t, f, 1)

	sorted, err := CheckSorted(ctx, f, handle)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if sorted {
		t.Error("expected unsorted")
	}
	if f.DoCount != 0 {
		t.Errorf("CheckSorted sent %d commands, want 0", f.DoCount)
	}

	if _, err := Sort(ctx, f, handle); err != nil {
		t.Fatalf("sort: %v", err)
	}
	sorted, err = CheckSorted(ctx, f, handle)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !sorted {
		t.Error("expected sorted after Sort")
	}
}
