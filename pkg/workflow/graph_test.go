package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func testSchema() Schema {
	return Schema{
		"count": {Default: func() interface{} { return 0 }, Merge: Replace},
		"trail": {Default: func() interface{} { return []interface{}{} }, Merge: Append},
	}
}

func recordNode(name string, decide func(State) Decision) NodeFunc {
	return func(ctx context.Context, state State) (Update, Decision, error) {
		d := Stay
		if decide != nil {
			d = decide(state)
		}
		return Update{"trail": []interface{}{name}}, d, nil
	}
}

func TestCompileValidation(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Builder
		wantErr string
	}{
		{
			name: "no entry",
			build: func() *Builder {
				return NewBuilder(testSchema()).AddNode("a", recordNode("a", nil))
			},
			wantErr: "no entry",
		},
		{
			name: "unknown entry",
			build: func() *Builder {
				return NewBuilder(testSchema()).
					AddNode("a", recordNode("a", nil)).
					SetEntry("missing")
			},
			wantErr: "not registered",
		},
		{
			name: "edge to unknown node",
			build: func() *Builder {
				return NewBuilder(testSchema()).
					AddNode("a", recordNode("a", nil)).
					AddEdge("a", "ghost").
					SetEntry("a")
			},
			wantErr: "unknown node",
		},
		{
			name: "route to unknown node",
			build: func() *Builder {
				return NewBuilder(testSchema()).
					AddNode("a", recordNode("a", nil)).
					AddConditionalEdges("a", map[string]string{"go": "ghost"}).
					SetEntry("a")
			},
			wantErr: "unknown node",
		},
		{
			name: "duplicate node",
			build: func() *Builder {
				return NewBuilder(testSchema()).
					AddNode("a", recordNode("a", nil)).
					AddNode("a", recordNode("a", nil)).
					SetEntry("a")
			},
			wantErr: "duplicate",
		},
		{
			name: "reserved node name",
			build: func() *Builder {
				return NewBuilder(testSchema()).
					AddNode(End, recordNode("x", nil)).
					SetEntry(End)
			},
			wantErr: "reserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Compile()
			if err == nil {
				t.Fatal("Compile succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLinearRun(t *testing.T) {
	g, err := NewBuilder(testSchema()).
		AddNode("first", recordNode("first", nil)).
		AddNode("second", recordNode("second", nil)).
		AddEdge("first", "second").
		AddEdge("second", End).
		SetEntry("first").
		Compile()
	if err != nil {
		t.Fatal(err)
	}

	state, err := g.Invoke(context.Background(), NewState(g.Schema()))
	if err != nil {
		t.Fatal(err)
	}
	trail := state.Strings("trail")
	if len(trail) != 2 || trail[0] != "first" || trail[1] != "second" {
		t.Errorf("trail = %v", trail)
	}
}

func TestConditionalRouting(t *testing.T) {
	// The decider runs on the state as it was when the node started,
	// so the iteration that routes to finish still appends its entry.
	decide := func(s State) Decision {
		if len(s.Strings("trail")) >= 3 {
			return RouteTo("finish")
		}
		return RouteTo("again")
	}
	g, err := NewBuilder(testSchema()).
		AddNode("loop", recordNode("loop", decide)).
		AddConditionalEdges("loop", map[string]string{
			"again":  "loop",
			"finish": End,
		}).
		SetEntry("loop").
		Compile()
	if err != nil {
		t.Fatal(err)
	}

	state, err := g.Invoke(context.Background(), NewState(g.Schema()))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(state.Strings("trail")); got != 4 {
		t.Errorf("loop iterations = %d, want 4", got)
	}
}

func TestUnmappedRouteFails(t *testing.T) {
	g, err := NewBuilder(testSchema()).
		AddNode("a", recordNode("a", func(State) Decision { return RouteTo("nowhere") })).
		AddConditionalEdges("a", map[string]string{"somewhere": End}).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Invoke(context.Background(), NewState(g.Schema()))
	if err == nil || !strings.Contains(err.Error(), "no edge for route") {
		t.Errorf("err = %v, want unmapped route error", err)
	}
}

func TestNodeErrorAbortsRun(t *testing.T) {
	boom := errors.New("boom")
	g, err := NewBuilder(testSchema()).
		AddNode("a", func(ctx context.Context, s State) (Update, Decision, error) {
			return nil, Stay, boom
		}).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Invoke(context.Background(), NewState(g.Schema()))
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestStepLimit(t *testing.T) {
	g, err := NewBuilder(testSchema()).
		AddNode("spin", recordNode("spin", func(State) Decision { return RouteTo("again") })).
		AddConditionalEdges("spin", map[string]string{"again": "spin"}).
		SetEntry("spin").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Invoke(context.Background(), NewState(g.Schema()), WithStepLimit(5))
	if err == nil || !strings.Contains(err.Error(), "step limit") {
		t.Errorf("err = %v, want step limit error", err)
	}
}

func TestStepHook(t *testing.T) {
	g, err := NewBuilder(testSchema()).
		AddNode("a", recordNode("a", nil)).
		AddNode("b", recordNode("b", nil)).
		AddEdge("a", "b").
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	var seen []string
	_, err = g.Invoke(context.Background(), NewState(g.Schema()),
		WithStepHook(func(node string, state State) {
			seen = append(seen, node)
		}))
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("hook saw %v", seen)
	}
}

func TestStepByStep(t *testing.T) {
	g, err := NewBuilder(testSchema()).
		AddNode("a", recordNode("a", nil)).
		AddNode("b", recordNode("b", nil)).
		AddEdge("a", "b").
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	run := g.Start(NewState(g.Schema()))
	if run.Current() != "a" {
		t.Errorf("Current = %q, want a", run.Current())
	}
	done, err := run.Step(context.Background())
	if err != nil || done {
		t.Fatalf("first step: done=%v err=%v", done, err)
	}
	if run.Current() != "b" {
		t.Errorf("Current after step = %q, want b", run.Current())
	}
	done, err = run.Step(context.Background())
	if err != nil || !done {
		t.Fatalf("second step: done=%v err=%v", done, err)
	}
	if !run.Done() || run.Current() != End {
		t.Error("run should be done at End")
	}
	// stepping a finished run is a no-op
	done, err = run.Step(context.Background())
	if err != nil || !done {
		t.Errorf("step after done: done=%v err=%v", done, err)
	}
}

func TestStartAt(t *testing.T) {
	g, err := NewBuilder(testSchema()).
		AddNode("a", recordNode("a", nil)).
		AddNode("b", recordNode("b", nil)).
		AddEdge("a", "b").
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	run, err := g.StartAt("b", NewState(g.Schema()))
	if err != nil {
		t.Fatal(err)
	}
	state, err := run.Drain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	trail := state.Strings("trail")
	if len(trail) != 1 || trail[0] != "b" {
		t.Errorf("trail = %v, want [b]", trail)
	}
	if _, err := g.StartAt("ghost", NewState(g.Schema())); err == nil {
		t.Error("StartAt unknown node should fail")
	}
}

func TestCanceledContext(t *testing.T) {
	g, err := NewBuilder(testSchema()).
		AddNode("a", recordNode("a", nil)).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Invoke(ctx, NewState(g.Schema())); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
