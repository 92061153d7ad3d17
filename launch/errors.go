package launch

import "errors"

var errMalformedSolution = errors.New("launch: launcher solution must be (singleton_full_puzzle_hash amount key_value_list)")

// IsMalformedSolution reports whether err came from decoding a bad launcher
// solution.
func IsMalformedSolution(err error) bool { return errors.Is(err, errMalformedSolution) }
