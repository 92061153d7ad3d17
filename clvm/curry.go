package clvm

// Currying builds `(a (q . template) env)` where env binds the fixed
// arguments in order and ends at the runtime environment:
//
//	env = (c (q . arg1) (c (q . arg2) ... 1))
//
// Uncurry recognizes exactly this shape and nothing looser, so that a
// curried program's argument list round-trips byte-exactly.

var (
	opQuote = []byte{0x01}
	opApply = []byte{0x02}
	opCons  = []byte{0x04}
)

// Curried is the result of recognizing a curried program.
type Curried struct {
	// ModHash is the structural hash of the template, the identity callers
	// compare against well-known template constants.
	ModHash  Hash
	Template *Node
	Args     []*Node
}

func quote(n *Node) *Node {
	return Pair(Atom(opQuote), n)
}

// Curry partially applies template to args.
func Curry(template *Node, args ...*Node) *Node {
	env := One()
	for i := len(args) - 1; i >= 0; i-- {
		env = List(Atom(opCons), quote(args[i]), env)
	}
	return List(Atom(opApply), quote(template), env)
}

// Uncurry recognizes a curried program. A tree that is not in curried form
// returns (nil, false); this is a normal probing outcome, not an error.
func Uncurry(n *Node) (*Curried, bool) {
	items, ok := ListItems(n)
	if !ok || len(items) != 3 {
		return nil, false
	}
	if !atomEquals(items[0], opApply) {
		return nil, false
	}
	template, ok := unquote(items[1])
	if !ok {
		return nil, false
	}
	var args []*Node
	env := items[2]
	for {
		if b, isAtom := env.AtomBytes(); isAtom {
			if len(b) == 1 && b[0] == 0x01 {
				break
			}
			return nil, false
		}
		parts, ok := ListItems(env)
		if !ok || len(parts) != 3 || !atomEquals(parts[0], opCons) {
			return nil, false
		}
		arg, ok := unquote(parts[1])
		if !ok {
			return nil, false
		}
		args = append(args, arg)
		env = parts[2]
	}
	return &Curried{
		ModHash:  TreeHash(template),
		Template: template,
		Args:     args,
	}, true
}

func unquote(n *Node) (*Node, bool) {
	if !n.IsPair() || !atomEquals(n.First(), opQuote) {
		return nil, false
	}
	return n.Rest(), true
}

func atomEquals(n *Node, b []byte) bool {
	a, ok := n.AtomBytes()
	if !ok || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CurryTreeHash computes the structural hash of Curry(template, args...)
// from component hashes alone, without materializing any tree. It must stay
// bit-identical to TreeHash(Curry(...)); layer commitments depend on it.
func CurryTreeHash(modHash Hash, argHashes ...Hash) Hash {
	quoteHash := HashAtom(opQuote)
	applyHash := HashAtom(opApply)
	consHash := HashAtom(opCons)
	oneHash := HashAtom([]byte{0x01})
	nilHash := HashAtom(nil)

	env := oneHash
	for i := len(argHashes) - 1; i >= 0; i-- {
		quotedArg := HashPair(quoteHash, argHashes[i])
		env = HashPair(consHash, HashPair(quotedArg, HashPair(env, nilHash)))
	}
	quotedTemplate := HashPair(quoteHash, modHash)
	return HashPair(applyHash, HashPair(quotedTemplate, HashPair(env, nilHash)))
}
