package service

import "math/rand"

// MaxOrderID is the exclusive upper bound of generated order IDs
const MaxOrderID = 1000

// RandomIDGenerator draws order IDs uniformly from [0, MaxOrderID)
type RandomIDGenerator struct{}

// NewRandomIDGenerator creates a new random ID generator
func NewRandomIDGenerator() *RandomIDGenerator {
	return &RandomIDGenerator{}
}

// NextID returns a random ID. Safe for concurrent use.
func (g *RandomIDGenerator) NextID() int {
	return rand.Intn(MaxOrderID)
}
