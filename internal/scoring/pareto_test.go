package scoring

import "testing"

func TestComputeFrontier(t *testing.T) {
	candidates := []ParetoCandidate{
		{ID: "cheap", Price: 95, Quality: 60, Delay: 75, Risk: 70},
		{ID: "premium", Price: 70, Quality: 95, Delay: 90, Risk: 95},
		{ID: "dominated", Price: 70, Quality: 60, Delay: 75, Risk: 70},
	}
	frontier := ComputeFrontier(candidates)
	if len(frontier) != 2 {
		t.Fatalf("expected 2 frontier candidates, got %d", len(frontier))
	}
	for _, c := range frontier {
		if c.ID == "dominated" {
			t.Error("dominated candidate should not be on the frontier")
		}
	}
}

func TestComputeFrontierEqualCandidates(t *testing.T) {
	c := ParetoCandidate{Price: 80, Quality: 80, Delay: 80, Risk: 80}
	a, b := c, c
	a.ID, b.ID = "a", "b"
	if got := ComputeFrontier([]ParetoCandidate{a, b}); len(got) != 2 {
		t.Errorf("identical candidates do not dominate each other, got %d", len(got))
	}
}

func TestComputeFrontierSingle(t *testing.T) {
	in := []ParetoCandidate{{ID: "only"}}
	if got := ComputeFrontier(in); len(got) != 1 {
		t.Errorf("expected single candidate back, got %d", len(got))
	}
}
