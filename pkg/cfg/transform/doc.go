// Package transform turns a prepared cfg.Graph into laid-out geometry: the
// layer, position and joint data a renderer needs to draw a control-flow
// graph.
//
// # Overview
//
// The pipeline runs in a fixed order, each stage consuming the previous
// stage's output:
//
//	ClassifyLoops(g)             // builds the loop tree, assigns LoopID
//	AssignLayers(g)               // assigns each block a y-rank
//	layout := Materialize(g)      // creates BlockNodes/DummyNodes
//	Straighten(g, layout, p)      // moves pos.x only
//	RouteJoints(layout, p)        // assigns edge joints to tracks
//	Verticalize(layout, p)        // moves pos.y, computes the bounding box
//
// No stage revisits an earlier stage's decisions: ClassifyLoops never
// touches layer, Materialize never touches loop membership, Straighten
// never touches y. Each stage's contract is exactly the field or fields it
// owns.
//
// # Loop Classification
//
// [ClassifyLoops] performs a single DFS from each root, tracking loop
// nesting on an explicit stack rather than through recursion state alone —
// a block's LoopID is always the header id currently on top of that stack.
// Every root's own entry in g.Headers is synthetic by construction: a true
// loop header always has a backedge predecessor, so it can never also have
// zero predecessors.
//
// # Layering
//
// [AssignLayers] walks the same DFS shape, but defers any edge leaving a
// loop to a shallower depth until the loop's full height is known — which
// happens naturally once the recursive call covering the loop body
// returns, since Go's call stack already visits the entire loop before
// unwinding.
//
// # Materialization
//
// [Materialize] processes blocks one layer at a time, coalescing
// same-destination forward edges into a single dummy chain and creating one
// return-column dummy per layer a loop remains open on. A column that
// never receives a real forward edge is pruned once the whole graph has
// been walked.
//
// # Straightening, Routing, Verticalizing
//
// [Straighten] is a fixed sequence of monotone, rightward-only passes —
// not a fixed-point search — so its iteration counts are tuning knobs, not
// correctness parameters. [RouteJoints] assigns each layer's two-bend edges
// to non-overlapping horizontal tracks. [Verticalize] stacks layers using
// the track heights RouteJoints computed.
package transform
