package sac

import (
	"math/rand"

	pcsac "github.com/seqsense/pcgol/pc/sac"
)

// NewRandomSampler returns a sampler drawing indices in [0, n) from rnd.
func NewRandomSampler(rnd *rand.Rand, n int) pcsac.Sampler {
	if n < 0x8000000 {
		return &randomSampler31{rnd, int32(n)}
	}
	return &randomSampler63{rnd, int64(n)}
}

type randomSampler31 struct {
	rnd *rand.Rand
	n   int32
}

func (s *randomSampler31) Sample() int {
	return int(s.rnd.Int31n(s.n))
}

type randomSampler63 struct {
	rnd *rand.Rand
	n   int64
}

func (s *randomSampler63) Sample() int {
	return int(s.rnd.Int63n(s.n))
}
