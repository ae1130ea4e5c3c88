// Package split partitions sample indices into seeded train and test sets.
//
// The permutation is drawn from a 32-bit Mersenne Twister seeded with
// init_genrand and shuffled with bounded-interval Fisher-Yates, the same
// sequence as NumPy's legacy RandomState.permutation. A given seed, sample
// count and test fraction yield the partition of scikit-learn's
// train_test_split.
package split

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mathext/prng"
)

const (
	// DefaultSeed is the seed used when callers do not choose one.
	DefaultSeed uint64 = 42
	// MaxSeed is the largest accepted seed. The generator is seeded from 32
	// bits, so larger seeds would repeat the split of a smaller one.
	MaxSeed uint64 = math.MaxUint32
)

var (
	// ErrInvalidFraction is returned for test fractions outside (0, 1).
	ErrInvalidFraction = errors.New("split: test fraction must be in (0, 1)")
	// ErrEmptySplit is returned when either side of the split would be empty.
	ErrEmptySplit = errors.New("split: train or test set would be empty")
	// ErrInvalidSeed is returned for seeds above MaxSeed.
	ErrInvalidSeed = errors.New("split: seed must be in [0, 2^32-1]")
)

// CheckSeed reports whether seed can be used for a split.
func CheckSeed(seed uint64) error {
	if seed > MaxSeed {
		return fmt.Errorf("%w: %d", ErrInvalidSeed, seed)
	}
	return nil
}

// Sizes returns the test and train sizes for n samples:
// nTest = ceil(testFraction*n), nTrain = n - nTest.
func Sizes(n int, testFraction float64) (nTrain, nTest int, err error) {
	if !(testFraction > 0 && testFraction < 1) {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidFraction, testFraction)
	}

	nTest = int(math.Ceil(testFraction * float64(n)))
	nTrain = n - nTest
	if nTrain < 1 || nTest < 1 {
		return 0, 0, fmt.Errorf("%w: n=%d, test fraction %v", ErrEmptySplit, n, testFraction)
	}
	return nTrain, nTest, nil
}

// Permutation returns a seeded permutation of [0, n).
func Permutation(n int, seed uint32) []int {
	src := prng.NewMT19937()
	src.Seed(uint64(seed))

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for i := n - 1; i > 0; i-- {
		j := interval(src, uint32(i))
		perm[i], perm[j] = perm[j], perm[i]
	}

	return perm
}

// interval draws uniformly from [0, maxVal] by masking and rejection.
func interval(src *prng.MT19937, maxVal uint32) int {
	if maxVal == 0 {
		return 0
	}

	mask := maxVal
	mask |= mask >> 1
	mask |= mask >> 2
	mask |= mask >> 4
	mask |= mask >> 8
	mask |= mask >> 16

	for {
		if v := src.Uint32() & mask; v <= maxVal {
			return int(v)
		}
	}
}

// TrainTest returns the train and test indices for n samples. The first
// nTest entries of the permutation form the test set, the rest the train
// set, both in permutation order.
func TrainTest(n int, testFraction float64, seed uint64) (train, test []int, err error) {
	if err := CheckSeed(seed); err != nil {
		return nil, nil, err
	}
	_, nTest, err := Sizes(n, testFraction)
	if err != nil {
		return nil, nil, err
	}

	perm := Permutation(n, uint32(seed))
	return perm[nTest:], perm[:nTest], nil
}
