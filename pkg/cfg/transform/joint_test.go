package transform

import (
	"testing"

	"github.com/iongraph/iongraph/pkg/cfg"
)

func dummyBlockNode(id string) *cfg.BlockNode {
	return cfg.NewBlockNode(id, &cfg.Block{ID: id})
}

func TestAssignTrack_NonOverlappingSharesInnermostTrack(t *testing.T) {
	var tracks [][]joint
	tracks = assignTrack(tracks, joint{dst: dummyBlockNode("a"), x1: 0, x2: 10})
	tracks = assignTrack(tracks, joint{dst: dummyBlockNode("b"), x1: 20, x2: 30})

	if len(tracks) != 1 {
		t.Fatalf("expected both non-overlapping joints in one track, got %d tracks", len(tracks))
	}
}

func TestAssignTrack_OverlappingOpensNewTrack(t *testing.T) {
	var tracks [][]joint
	tracks = assignTrack(tracks, joint{dst: dummyBlockNode("a"), x1: 0, x2: 10})
	tracks = assignTrack(tracks, joint{dst: dummyBlockNode("b"), x1: 5, x2: 15})

	if len(tracks) != 2 {
		t.Fatalf("expected overlapping joints in separate tracks, got %d", len(tracks))
	}
}

func TestAssignTrack_SharedDestinationMerges(t *testing.T) {
	shared := dummyBlockNode("shared")
	var tracks [][]joint
	tracks = assignTrack(tracks, joint{dst: shared, x1: 0, x2: 10})
	tracks = assignTrack(tracks, joint{dst: shared, x1: 5, x2: 15})

	if len(tracks) != 1 || len(tracks[0]) != 2 {
		t.Fatalf("expected joints sharing a destination to merge into one track, got %v", tracks)
	}
}

func TestTrackOffsets_SymmetricAroundZero(t *testing.T) {
	offsets := trackOffsets(2, 1, 16)
	if len(offsets) != 3 {
		t.Fatalf("expected 3 offsets, got %d", len(offsets))
	}
	sum := offsets[0] + offsets[1] + offsets[2]
	if sum < -0.001 || sum > 0.001 {
		// Symmetric spacing around 0 with an odd total sums to ~0.
		t.Errorf("offsets not symmetric around 0: %v (sum=%v)", offsets, sum)
	}
	want := []float64{0, -16, 16}
	for i := range offsets {
		if offsets[i] != want[i] {
			t.Errorf("offsets = %v, want %v (rightward tracks reversed, then leftward)", offsets, want)
		}
	}
}
