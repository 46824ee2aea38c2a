package racer

import (
	"context"
	"testing"
	"time"
)

// stubProvider serves a fixed adjacency map. Safe for concurrent use.
type stubProvider struct {
	adjacency map[string][]string
}

func (p *stubProvider) LinksOf(_ context.Context, _ context.CancelFunc, title, _ string) ([]string, error) {
	links := p.adjacency[title]
	out := make([]string, len(links))
	copy(out, links)
	return out, nil
}

type stubExister struct {
	known map[string]bool
}

func (e *stubExister) Exists(_ context.Context, title string) (bool, error) {
	return e.known[title], nil
}

func existsFor(adjacency map[string][]string, extra ...string) *stubExister {
	known := make(map[string]bool)
	for k, links := range adjacency {
		known[k] = true
		for _, l := range links {
			known[l] = true
		}
	}
	for _, t := range extra {
		known[t] = true
	}
	return &stubExister{known: known}
}

func raceWithTimeout(t *testing.T, e *Engine, source, destination string) ([]string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return e.Race(ctx, source, destination)
}

// raceExpectingNoPath is for cases where the search graph has no path
// to destination: per the engine's design a dead-end task blocks on
// the shared cancellation signal rather than exiting early, so an
// unreachable destination only resolves once the context is done. Use
// a short timeout so these tests don't take seconds to run.
func raceExpectingNoPath(t *testing.T, e *Engine, source, destination string) ([]string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	return e.Race(ctx, source, destination)
}

func TestRace_DirectLink(t *testing.T) {
	adjacency := map[string][]string{
		"Giraffe": {"Mammal"},
		"Mammal":  {},
	}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	path, err := raceWithTimeout(t, e, "Giraffe", "Mammal")
	if err != nil {
		t.Fatalf("Race() error = %v", err)
	}
	if len(path) != 2 || path[0] != "Giraffe" || path[1] != "Mammal" {
		t.Errorf("Race() = %v, want [Giraffe Mammal]", path)
	}
}

func TestRace_TwoHops(t *testing.T) {
	adjacency := map[string][]string{
		"Giraffe": {"Mammal"},
		"Mammal":  {"Animal"},
		"Animal":  {},
	}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	path, err := raceWithTimeout(t, e, "Giraffe", "Animal")
	if err != nil {
		t.Fatalf("Race() error = %v", err)
	}
	want := []string{"Giraffe", "Mammal", "Animal"}
	if len(path) != len(want) {
		t.Fatalf("Race() = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Race() = %v, want %v", path, want)
		}
	}
}

func TestRace_NoPathFound(t *testing.T) {
	adjacency := map[string][]string{
		"Giraffe": {"Mammal"},
		"Mammal":  {"Animal"},
		"Animal":  {"Mammal"},
		"Unrelated": {},
	}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	path, err := raceExpectingNoPath(t, e, "Giraffe", "Unrelated")
	if err != nil {
		t.Fatalf("Race() error = %v", err)
	}
	if path != nil {
		t.Errorf("Race() = %v, want nil (no path)", path)
	}
}

func TestRace_OrphanDestinationLinkedFromRootIsFound(t *testing.T) {
	adjacency := map[string][]string{
		"Giraffe": {"Mammal"},
		"Mammal":  {"Orphan"},
		"Orphan":  {},
	}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	path, err := raceWithTimeout(t, e, "Mammal", "Orphan")
	if err != nil {
		t.Fatalf("Race() error = %v", err)
	}
	// Orphan has no outgoing links of its own, so the destination-hint
	// set is empty and nothing below the root recurses into it; the
	// direct-link case at the root still succeeds since Mammal links
	// straight to Orphan.
	if len(path) != 2 || path[1] != "Orphan" {
		t.Errorf("Race() = %v, want a direct 2-hop path to Orphan", path)
	}
}

func TestRace_TrueOrphanDestinationTerminatesWithoutDeadlock(t *testing.T) {
	// Orphan is unreachable as a direct link from anywhere in the
	// graph, so the root's expansion of Giraffe gets past its
	// direct-link check to the destination-hint computation and
	// discovers the hint set is empty.
	// That must cancel the request outright rather than block forever.
	adjacency := map[string][]string{
		"Giraffe": {"Mammal"},
		"Mammal":  {"Lion"},
		"Lion":    {},
		"Orphan":  {},
	}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	path, err := raceWithTimeout(t, e, "Giraffe", "Orphan")
	if err != nil {
		t.Fatalf("Race() error = %v", err)
	}
	if path != nil {
		t.Errorf("Race() = %v, want nil for an orphan destination", path)
	}
}

func TestRace_SelfLoopShortcut(t *testing.T) {
	adjacency := map[string][]string{
		"Giraffe": {"Giraffe"},
	}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	path, err := raceWithTimeout(t, e, "Giraffe", "Giraffe")
	if err != nil {
		t.Fatalf("Race() error = %v", err)
	}
	if len(path) != 1 || path[0] != "Giraffe" {
		t.Errorf("Race() = %v, want [Giraffe]", path)
	}
}

func TestRace_InvalidSource(t *testing.T) {
	adjacency := map[string][]string{"Mammal": {}}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	_, err := raceWithTimeout(t, e, "Nonexistent", "Mammal")
	if err != ErrInvalidSource {
		t.Errorf("Race() error = %v, want ErrInvalidSource", err)
	}
}

func TestRace_InvalidDestination(t *testing.T) {
	adjacency := map[string][]string{"Giraffe": {}}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	_, err := raceWithTimeout(t, e, "Giraffe", "Nonexistent")
	if err != ErrInvalidDestination {
		t.Errorf("Race() error = %v, want ErrInvalidDestination", err)
	}
}

func TestRace_DestinationBiasPrefersDirectBacklink(t *testing.T) {
	// Mammal links to both a dead-end chain and directly to Animal;
	// Animal's own outgoing links (its hint set) include Mammal, which
	// should not prevent discovery, it should only affect ordering.
	adjacency := map[string][]string{
		"Giraffe":  {"Mammal"},
		"Mammal":   {"DeadEndA", "Animal"},
		"DeadEndA": {"DeadEndB"},
		"DeadEndB": {},
		"Animal":   {"Mammal"},
	}
	e := New(&stubProvider{adjacency: adjacency}, existsFor(adjacency), Config{})

	path, err := raceWithTimeout(t, e, "Giraffe", "Animal")
	if err != nil {
		t.Fatalf("Race() error = %v", err)
	}
	if len(path) == 0 || path[len(path)-1] != "Animal" {
		t.Errorf("Race() = %v, want a path ending in Animal", path)
	}
}

func TestTitleSet_Basic(t *testing.T) {
	s := newTitleSet()
	if s.Has("Giraffe") {
		t.Fatal("Has() = true on empty set")
	}
	s.Add("Giraffe")
	if !s.Has("Giraffe") {
		t.Fatal("Has() = false after Add")
	}
}

func TestLevelGate_OpensAfterN(t *testing.T) {
	g := newLevelGate(2)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		g.Wait(ctx)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("gate opened before both Done calls")
	case <-time.After(20 * time.Millisecond):
	}

	g.Done()
	g.Done()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gate did not open after n Done calls")
	}
}

func TestLevelGate_ZeroOpensImmediately(t *testing.T) {
	g := newLevelGate(0)
	select {
	case <-g.done:
	default:
		t.Fatal("zero-capacity gate should open immediately")
	}
}

func TestBiasTowardHint_PartitionsPreservingOrder(t *testing.T) {
	linkSet := []string{"A", "B", "C", "D"}
	hint := []string{"C", "A"}

	got := biasTowardHint(linkSet, hint)
	want := []string{"A", "C", "B", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("biasTowardHint() = %v, want %v", got, want)
		}
	}
}
