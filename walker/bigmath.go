package walker

import (
	"math/big"

	"github.com/anonion0/n3map/rr"
)

type bigInt = big.Int

type bigFloat = big.Float

// nolint:gochecknoglobals
var bigInt2 = big.NewInt(2)

// hashSpaceInt returns 2^160, the size of the NSEC3 hash circle.
func hashSpaceInt() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 160)
}

func hashSpaceFloat() *big.Float {
	return new(big.Float).SetInt(hashSpaceInt())
}

func bigIntFromDigest(d [rr.DigestLength]byte) *big.Int {
	return new(big.Int).SetBytes(d[:])
}
