package cpu

import "math/rand/v2"

// RandomSource provides the bytes used by RND.
type RandomSource interface {
	Byte() uint8
}

type pcgRandom struct {
	r *rand.Rand
}

// NewRandom returns a randomly seeded source.
func NewRandom() RandomSource {
	return NewSeededRandom(rand.Uint64())
}

// NewSeededRandom returns a source that yields the same sequence for the same seed.
func NewSeededRandom(seed uint64) RandomSource {
	return &pcgRandom{r: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (p *pcgRandom) Byte() uint8 {
	return uint8(p.r.UintN(256))
}

// SequenceRandom replays a fixed list of bytes, starting over once exhausted.
// An empty sequence always yields zero.
type SequenceRandom struct {
	values []uint8
	next   int
}

func NewSequenceRandom(values ...uint8) *SequenceRandom {
	return &SequenceRandom{values: values}
}

func (s *SequenceRandom) Byte() uint8 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
