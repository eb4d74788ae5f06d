// Package ride produces the synthetic booking data quoted to the user.
package ride

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	MinDistanceKm = 2
	MaxDistanceKm = 25
	MinOTP        = 1000
	MaxOTP        = 9999

	BaseFareRupees    = 50
	FarePerKmInRupees = 15
)

// Facts is the ride data for a single orchestration cycle. It is never stored.
type Facts struct {
	DistanceKm int
	FareRupees int
	OTP        int
}

func FareFor(distanceKm int) int {
	return BaseFareRupees + FarePerKmInRupees*distanceKm
}

// Generator draws fresh Facts from a uniform random source.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// NewDefaultGenerator seeds a PCG source from the clock.
func NewDefaultGenerator() *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewGenerator(rand.NewPCG(seed, seed>>32|1))
}

func (g *Generator) Generate() Facts {
	g.mu.Lock()
	distance := MinDistanceKm + g.rnd.IntN(MaxDistanceKm-MinDistanceKm+1)
	otp := MinOTP + g.rnd.IntN(MaxOTP-MinOTP+1)
	g.mu.Unlock()

	return Facts{
		DistanceKm: distance,
		FareRupees: FareFor(distance),
		OTP:        otp,
	}
}
