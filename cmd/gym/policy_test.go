package main

import (
	"testing"

	"github.com/rxtech-lab/argo-gym/pkg/errors"
	"github.com/rxtech-lab/argo-gym/pkg/gym"
	"github.com/stretchr/testify/suite"
)

type PolicyTestSuite struct {
	suite.Suite
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicyTestSuite))
}

func (suite *PolicyTestSuite) TestHold() {
	policy, err := NewPolicy(PolicyHold, 0)
	suite.Require().NoError(err)
	suite.Equal(0.0, policy.Act(gym.Observation{}))
}

func (suite *PolicyTestSuite) TestAlwaysLong() {
	policy, err := NewPolicy(PolicyAlwaysLong, 0)
	suite.Require().NoError(err)
	suite.Equal(1.0, policy.Act(gym.Observation{Close: 100}))
}

func (suite *PolicyTestSuite) TestRandomIsSeeded() {
	first, err := NewPolicy(PolicyRandom, 42)
	suite.Require().NoError(err)
	second, err := NewPolicy(PolicyRandom, 42)
	suite.Require().NoError(err)

	for i := 0; i < 100; i++ {
		action := first.Act(gym.Observation{})
		suite.Equal(action, second.Act(gym.Observation{}))
		suite.GreaterOrEqual(action, -1.0)
		suite.Less(action, 1.0)
	}
}

func (suite *PolicyTestSuite) TestUnknownPolicy() {
	_, err := NewPolicy("momentum", 0)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
