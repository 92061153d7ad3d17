// Package puzzles is the template library: the fixed puzzle programs the
// driver recognizes and curries, plus their structural-hash constants.
//
// Each template is built exactly once. The hash constants are derived from
// the template trees at init so the construct and parse paths can never
// drift apart: both sides consume the same value.
package puzzles

import "verdin.dev/verdin/clvm"

var (
	singletonTopLayer *clvm.Node
	singletonLauncher *clvm.Node
	p2BLS             *clvm.Node

	// SingletonTopLayerModHash is the commitment of the singleton top-layer
	// template. Every singleton puzzle is this template curried with a
	// singleton struct and an inner puzzle.
	SingletonTopLayerModHash clvm.Hash

	// LauncherPuzzleHash is the commitment of the launcher template. A
	// singleton's identity is anchored to a one-time coin carrying exactly
	// this puzzle.
	LauncherPuzzleHash clvm.Hash

	// P2BLSModHash is the commitment of the pay-to-BLS-key template.
	P2BLSModHash clvm.Hash
)

func init() {
	singletonTopLayer = buildSingletonTopLayer()
	singletonLauncher = buildSingletonLauncher()
	p2BLS = buildP2BLS()

	SingletonTopLayerModHash = clvm.TreeHash(singletonTopLayer)
	LauncherPuzzleHash = clvm.TreeHash(singletonLauncher)
	P2BLSModHash = clvm.TreeHash(p2BLS)
}

// SingletonTopLayer returns the singleton top-layer template program.
func SingletonTopLayer() *clvm.Node { return singletonTopLayer }

// SingletonLauncher returns the launcher template program.
func SingletonLauncher() *clvm.Node { return singletonLauncher }

// P2BLS returns the pay-to-BLS-key template program.
func P2BLS() *clvm.Node { return p2BLS }

// Program bodies. The driver never evaluates these; what matters is that
// each is a stable, distinct tree whose hash identifies the template. The
// shapes mirror the layout of compiled spend programs: an apply over a
// quoted body and an environment capture.

func op(b byte) *clvm.Node { return clvm.Atom([]byte{b}) }

func buildSingletonTopLayer() *clvm.Node {
	// (a (q . (a 4 (c 2 (c 5 (c 11 (c 23 ())))))) (c (q . "singleton") 1))
	body := clvm.List(op(2), op(4),
		clvm.List(op(4), op(2),
			clvm.List(op(4), op(5),
				clvm.List(op(4), op(11),
					clvm.List(op(4), op(23), clvm.Nil())))))
	capture := clvm.List(op(4), clvm.Pair(op(1), clvm.Atom([]byte("singleton"))), clvm.One())
	return clvm.List(op(2), clvm.Pair(op(1), body), capture)
}

func buildSingletonLauncher() *clvm.Node {
	// (a (q . (c (c 10 (c 5 (c 11 ()))) ())) (c (q . "launcher") 1))
	body := clvm.List(op(4),
		clvm.List(op(4), op(10),
			clvm.List(op(4), op(5),
				clvm.List(op(4), op(11), clvm.Nil()))),
		clvm.Nil())
	capture := clvm.List(op(4), clvm.Pair(op(1), clvm.Atom([]byte("launcher"))), clvm.One())
	return clvm.List(op(2), clvm.Pair(op(1), body), capture)
}

func buildP2BLS() *clvm.Node {
	// (a (q . (c (c 50 (c 2 (c 5 ()))) 11)) (c (q . "p2-bls") 1))
	body := clvm.List(op(4),
		clvm.List(op(4), op(50),
			clvm.List(op(4), op(2),
				clvm.List(op(4), op(5), clvm.Nil()))),
		op(11))
	capture := clvm.List(op(4), clvm.Pair(op(1), clvm.Atom([]byte("p2-bls"))), clvm.One())
	return clvm.List(op(2), clvm.Pair(op(1), body), capture)
}
