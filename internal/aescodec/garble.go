package aescodec

import "unicode/utf8"

const WarnSuspectParameters = "output is empty or not valid UTF-8, the key, IV or password may be wrong"

// LooksGarbled is the heuristic the decrypt panels use to flag a probable
// wrong key. It cannot tell binary plaintext from garbage.
func LooksGarbled(b []byte) bool {
	return len(b) == 0 || !utf8.Valid(b)
}
