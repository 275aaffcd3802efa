package demand

import "math/rand/v2"

// TrialSource returns the random source for one trial. The stream depends
// only on (seed, trial), never on scheduling.
func TrialSource(seed uint64, trial int) *rand.PCG {
	hi := splitmix64(seed)
	lo := splitmix64(hi ^ splitmix64(uint64(trial)+0x9e3779b97f4a7c15))
	return rand.NewPCG(hi, lo)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
