package layer

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/topcat/pkg/errors"
)

func TestCheckCyclesAcyclic(t *testing.T) {
	nodes := index(node("a", "normal"), node("b", "normal", "a"))
	g, err := Build(nodes, Default())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := CheckCycles(g, nodes); err != nil {
		t.Errorf("CheckCycles() = %v, want nil", err)
	}
}

func TestCheckCyclesTwoNodes(t *testing.T) {
	nodes := index(node("a", "normal", "b"), node("b", "normal", "a"))
	g, err := Build(nodes, Default())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	err = CheckCycles(g, nodes)
	var cerr *errors.CycleError
	if !stderrors.As(err, &cerr) {
		t.Fatalf("CheckCycles() = %v, want *errors.CycleError", err)
	}
	if !errors.Is(err, errors.ErrCodeCyclicDependency) {
		t.Errorf("code = %v", errors.GetCode(err))
	}
	if len(cerr.Cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cerr.Cycles))
	}

	c := cerr.Cycles[0]
	wantParticipants := []errors.Participant{{Name: "a", Path: "a.sql"}, {Name: "b", Path: "b.sql"}}
	if !slices.Equal(c.Participants, wantParticipants) {
		t.Errorf("Participants = %v, want %v", c.Participants, wantParticipants)
	}
	wantEdges := [][2]string{{"a", "b"}, {"b", "a"}}
	if !slices.Equal(c.Edges, wantEdges) {
		t.Errorf("Edges = %v, want %v", c.Edges, wantEdges)
	}
	if c.Layer != "normal" {
		t.Errorf("Layer = %q", c.Layer)
	}
	if Summary(c) != "a -> b -> a" {
		t.Errorf("Summary() = %q", Summary(c))
	}
}

func TestCheckCyclesAggregatesLayers(t *testing.T) {
	nodes := index(
		node("p1", "prepend", "p2"),
		node("p2", "prepend", "p1"),
		node("n1", "normal"),
		node("z1", "append", "z2"),
		node("z2", "append", "z3"),
		node("z3", "append", "z1"),
		node("z4", "append", "z4"),
	)
	g, err := Build(nodes, Default())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var cerr *errors.CycleError
	if !stderrors.As(CheckCycles(g, nodes), &cerr) {
		t.Fatal("CheckCycles() did not return a cycle error")
	}
	var got []string
	for _, c := range cerr.Cycles {
		got = append(got, c.Layer+": "+Summary(c))
	}
	want := []string{
		"prepend: p1 -> p2 -> p1",
		"append: z1 -> z3 -> z2 -> z1",
		"append: z4 -> z4",
	}
	if !slices.Equal(got, want) {
		t.Errorf("cycles = %q, want %q", got, want)
	}

	msg := cerr.Error()
	for _, s := range []string{"Cycle 1 (layer prepend)", "Cycle 3 (layer append)", "z4 (z4.sql)", "z3 -> z2"} {
		if !strings.Contains(msg, s) {
			t.Errorf("message missing %q:\n%s", s, msg)
		}
	}
}
