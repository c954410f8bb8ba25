package workflow

import (
	"context"
	"fmt"
)

// End is the terminal route. A node that routes here suspends the run;
// Invoke returns and the caller decides whether to resume with fresh
// input or finish for good.
const End = "__end__"

// Decision is a node's routing verdict. The zero value follows the
// node's static edge. A non-empty Route is resolved through the node's
// conditional edge map.
type Decision struct {
	Route string
}

// Stay follows the node's static edge.
var Stay = Decision{}

// RouteTo resolves the named conditional route.
func RouteTo(route string) Decision {
	return Decision{Route: route}
}

// NodeFunc executes one node. It returns a partial state update, a
// routing decision, and an error that aborts the run.
type NodeFunc func(ctx context.Context, state State) (Update, Decision, error)

type node struct {
	fn         NodeFunc
	next       string
	conditions map[string]string
}

// Graph is a compiled, immutable workflow. Build one with a Builder.
type Graph struct {
	schema Schema
	nodes  map[string]*node
	entry  string
}

// Builder assembles a graph definition before compilation.
type Builder struct {
	schema Schema
	nodes  map[string]*node
	entry  string
	errs   []error
}

// NewBuilder starts a graph over the given state schema.
func NewBuilder(schema Schema) *Builder {
	return &Builder{schema: schema, nodes: map[string]*node{}}
}

// AddNode registers a named node. Names must be unique.
func (b *Builder) AddNode(name string, fn NodeFunc) *Builder {
	if name == End {
		b.errs = append(b.errs, fmt.Errorf("node name %q is reserved", End))
		return b
	}
	if _, exists := b.nodes[name]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate node %q", name))
		return b
	}
	b.nodes[name] = &node{fn: fn, conditions: map[string]string{}}
	return b
}

// AddEdge sets the static edge followed when a node returns Stay.
func (b *Builder) AddEdge(from, to string) *Builder {
	n, ok := b.nodes[from]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("edge from unknown node %q", from))
		return b
	}
	if n.next != "" {
		b.errs = append(b.errs, fmt.Errorf("node %q already has a static edge", from))
		return b
	}
	n.next = to
	return b
}

// AddConditionalEdges maps the routes a node may return to their
// target nodes. Targets may include End.
func (b *Builder) AddConditionalEdges(from string, routes map[string]string) *Builder {
	n, ok := b.nodes[from]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("conditional edges from unknown node %q", from))
		return b
	}
	for route, to := range routes {
		if _, dup := n.conditions[route]; dup {
			b.errs = append(b.errs, fmt.Errorf("node %q: duplicate route %q", from, route))
			continue
		}
		n.conditions[route] = to
	}
	return b
}

// SetEntry names the node a run starts at.
func (b *Builder) SetEntry(name string) *Builder {
	b.entry = name
	return b
}

// Compile validates the definition and returns an immutable graph.
func (b *Builder) Compile() (*Graph, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if b.entry == "" {
		return nil, fmt.Errorf("graph has no entry node")
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, fmt.Errorf("entry node %q is not registered", b.entry)
	}
	for name, n := range b.nodes {
		if n.next != "" && n.next != End {
			if _, ok := b.nodes[n.next]; !ok {
				return nil, fmt.Errorf("node %q: static edge to unknown node %q", name, n.next)
			}
		}
		for route, to := range n.conditions {
			if to == End {
				continue
			}
			if _, ok := b.nodes[to]; !ok {
				return nil, fmt.Errorf("node %q: route %q targets unknown node %q", name, route, to)
			}
		}
	}
	return &Graph{schema: b.schema, nodes: b.nodes, entry: b.entry}, nil
}

// Schema exposes the graph's state schema so callers can seed and
// merge state outside of a run.
func (g *Graph) Schema() Schema {
	return g.schema
}

// Run is one in-flight execution of a graph.
type Run struct {
	graph   *Graph
	state   State
	current string
	done    bool
}

// Start begins a run at the entry node. The state is used directly;
// pass a Clone if the caller keeps a reference.
func (g *Graph) Start(state State) *Run {
	return &Run{graph: g, state: state, current: g.entry}
}

// StartAt begins a run at an arbitrary node, used when resuming a
// suspended workflow from a persisted position.
func (g *Graph) StartAt(node string, state State) (*Run, error) {
	if _, ok := g.nodes[node]; !ok {
		return nil, fmt.Errorf("cannot resume at unknown node %q", node)
	}
	return &Run{graph: g, state: state, current: node}, nil
}

// State returns the run's current state.
func (r *Run) State() State {
	return r.state
}

// Current returns the node the next Step will execute, or End when the
// run has finished.
func (r *Run) Current() string {
	if r.done {
		return End
	}
	return r.current
}

// Done reports whether the run has reached End.
func (r *Run) Done() bool {
	return r.done
}

// Step executes the current node, merges its update, and advances to
// the next node. It returns true once the run reaches End.
func (r *Run) Step(ctx context.Context) (bool, error) {
	if r.done {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	n := r.graph.nodes[r.current]
	update, decision, err := n.fn(ctx, r.state)
	if err != nil {
		return false, fmt.Errorf("node %s: %w", r.current, err)
	}
	if update != nil {
		r.state.Apply(r.graph.schema, update)
	}
	next, err := r.resolve(n, decision)
	if err != nil {
		return false, err
	}
	if next == End {
		r.done = true
		return true, nil
	}
	r.current = next
	return false, nil
}

func (r *Run) resolve(n *node, decision Decision) (string, error) {
	if decision.Route == "" {
		if n.next == "" {
			return End, nil
		}
		return n.next, nil
	}
	if decision.Route == End {
		return End, nil
	}
	to, ok := n.conditions[decision.Route]
	if !ok {
		return "", fmt.Errorf("node %s: no edge for route %q", r.current, decision.Route)
	}
	return to, nil
}

type invokeConfig struct {
	stepLimit int
	stepHook  func(node string, state State)
}

// InvokeOption tunes a single Invoke call.
type InvokeOption func(*invokeConfig)

// WithStepLimit caps the number of node executions in one Invoke.
func WithStepLimit(limit int) InvokeOption {
	return func(c *invokeConfig) { c.stepLimit = limit }
}

// WithStepHook runs after every node execution with the node just
// executed and the merged state. Multiple hooks run in the order they
// were added.
func WithStepHook(hook func(node string, state State)) InvokeOption {
	return func(c *invokeConfig) {
		prev := c.stepHook
		if prev == nil {
			c.stepHook = hook
			return
		}
		c.stepHook = func(node string, state State) {
			prev(node, state)
			hook(node, state)
		}
	}
}

const defaultStepLimit = 100

// Invoke runs the graph from the entry node until it reaches End and
// returns the final state.
func (g *Graph) Invoke(ctx context.Context, state State, opts ...InvokeOption) (State, error) {
	run := g.Start(state)
	return run.Drain(ctx, opts...)
}

// Drain steps the run until End, honoring the step limit.
func (r *Run) Drain(ctx context.Context, opts ...InvokeOption) (State, error) {
	cfg := invokeConfig{stepLimit: defaultStepLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	for steps := 0; ; steps++ {
		if steps >= cfg.stepLimit {
			return r.state, fmt.Errorf("step limit %d exceeded at node %s", cfg.stepLimit, r.current)
		}
		executed := r.current
		done, err := r.Step(ctx)
		if err != nil {
			return r.state, err
		}
		if cfg.stepHook != nil {
			cfg.stepHook(executed, r.state)
		}
		if done {
			return r.state, nil
		}
	}
}
