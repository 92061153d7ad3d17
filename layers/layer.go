// Package layers implements the composable puzzle-layer model: the generic
// codec contract every layer satisfies, the singleton (persistent identity)
// layer with its lineage bookkeeping, and leaf layers for opaque programs
// and pay-to-BLS-key spends.
//
// A layer stack is built fresh for every intended spend and reconstructed,
// never mutated, when parsing a broadcast spend. All operations are pure
// functions over immutable inputs; constructing or parsing the same stack
// twice yields structurally identical results.
package layers

import "verdin.dev/verdin/clvm"

// Layer is the codec contract, parametric over the layer's solution type S.
// A layer owns exactly one inner layer (or terminates the stack); its
// solution type composes the inner layer's solution.
type Layer[S any] interface {
	// ConstructPuzzle deterministically builds the layer's program tree,
	// recursively embedding the inner layer's puzzle.
	ConstructPuzzle() (*clvm.Node, error)

	// ConstructSolution deterministically builds the solution tree for sol.
	ConstructSolution(sol S) (*clvm.Node, error)

	// TreeHash computes the layer's puzzle commitment without materializing
	// the full tree, from the inner layer's own commitment.
	TreeHash() (clvm.Hash, error)
}

// PuzzleParser probes a puzzle tree for a layer of type L.
//
// The result has three outcomes: (nil, nil) means the tree is not an L,
// a normal probing answer where callers move on to the next candidate type;
// (nil, err) means the template matched but the embedded data is invalid;
// a value means recognized.
type PuzzleParser[L any] func(puzzle *clvm.Node) (*L, error)

// SpendParser is the same probe over a parent spend's puzzle and solution
// pair, additionally recovering state only knowable from the solution.
type SpendParser[L any] func(puzzle, solution *clvm.Node) (*L, error)

// Codec bundles both parse directions for one layer type. The phantom
// solution parameter S lets composed codecs carry their full stack type.
type Codec[L, S any] struct {
	FromPuzzle      PuzzleParser[L]
	FromParentSpend SpendParser[L]
}
