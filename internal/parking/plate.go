package parking

import (
	"fmt"
	"math/rand"
	"time"
)

// PlateGenerator produces synthetic registration numbers for the ANPR
// simulation, always in the pattern MH<2 digits>AB<4 digits>.
type PlateGenerator struct {
	rng *rand.Rand
}

func NewPlateGenerator() *PlateGenerator {
	return NewSeededPlateGenerator(time.Now().UnixNano())
}

func NewSeededPlateGenerator(seed int64) *PlateGenerator {
	return &PlateGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *PlateGenerator) Next() string {
	return fmt.Sprintf("MH%02dAB%04d", 10+g.rng.Intn(90), 1000+g.rng.Intn(9000))
}
