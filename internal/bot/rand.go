package bot

import "math/rand/v2"

// seedRng hands out game and autopilot seeds. When nil, seeds come from the
// runtime's random source. Use SeedBotRng for reproducible arena batches.
var seedRng *rand.Rand

// SeedBotRng makes every seed handed out afterwards deterministic.
func SeedBotRng(seed uint64) {
	seedRng = rand.New(rand.NewPCG(seed, seed^0x5eed))
}

// ResetBotRng reverts to non-deterministic seeds.
func ResetBotRng() {
	seedRng = nil
}

// NextSeed returns a fresh non-zero seed.
func NextSeed() uint64 {
	for {
		var s uint64
		if seedRng != nil {
			s = seedRng.Uint64()
		} else {
			s = rand.Uint64()
		}
		if s != 0 {
			return s
		}
	}
}
