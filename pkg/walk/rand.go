package walk

import "math/rand/v2"

// NewRand returns a PCG-backed generator for the given seed and stream.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// coordinatorStream is reserved for the shuffling generator so that it never
// shares a stream with a worker.
const coordinatorStream = ^uint64(0)

// WorkerRand derives worker w's generator from the global seed. Each worker
// owns its generator outright; nothing is shared between goroutines.
func WorkerRand(seed uint64, w int) *rand.Rand {
	return NewRand(seed, uint64(w))
}

// CoordinatorRand is the generator used to shuffle node order between passes.
func CoordinatorRand(seed uint64) *rand.Rand {
	return NewRand(seed, coordinatorStream)
}
