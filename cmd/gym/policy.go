package main

import (
	"math/rand"

	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"github.com/rxtech-lab/argo-gym/pkg/gym"
)

type PolicyName string

const (
	PolicyHold       PolicyName = "hold"
	PolicyRandom     PolicyName = "random"
	PolicyAlwaysLong PolicyName = "always-long"
)

var AllPolicies = []PolicyName{PolicyHold, PolicyRandom, PolicyAlwaysLong}

// Policy picks the action for the next step from the last observation.
type Policy interface {
	Act(observation gym.Observation) float64
}

// NewPolicy returns the baseline policy called name. seed only affects the random policy.
func NewPolicy(name PolicyName, seed int64) (Policy, error) {
	switch name {
	case PolicyHold:
		return holdPolicy{}, nil
	case PolicyRandom:
		return &randomPolicy{rng: rand.New(rand.NewSource(seed))}, nil
	case PolicyAlwaysLong:
		return alwaysLongPolicy{}, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown policy: %s", name)
	}
}

// holdPolicy never trades.
type holdPolicy struct{}

func (holdPolicy) Act(gym.Observation) float64 {
	return 0
}

// randomPolicy draws actions uniformly from [-1, 1).
type randomPolicy struct {
	rng *rand.Rand
}

func (p *randomPolicy) Act(gym.Observation) float64 {
	return p.rng.Float64()*2 - 1
}

// alwaysLongPolicy buys whenever flat.
type alwaysLongPolicy struct{}

func (alwaysLongPolicy) Act(gym.Observation) float64 {
	return 1
}
