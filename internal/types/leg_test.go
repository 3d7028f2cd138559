package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tradelens/chart-image/pkg/errors"
)

type LegTestSuite struct {
	suite.Suite
}

func TestLegSuite(t *testing.T) {
	suite.Run(t, new(LegTestSuite))
}

func (suite *LegTestSuite) TestBuySide() {
	suite.True(LegTypeEntry.BuySide())
	suite.True(LegTypeAdd.BuySide())
	suite.False(LegTypeTrim.BuySide())
	suite.False(LegTypeExit.BuySide())
	// Unrecognized types fall to the sell side.
	suite.False(LegType("HEDGE").BuySide())
}

func (suite *LegTestSuite) TestKnown() {
	suite.True(LegTypeEntry.Known())
	suite.True(LegTypeAdd.Known())
	suite.True(LegTypeTrim.Known())
	suite.True(LegTypeExit.Known())
	suite.False(LegType("HEDGE").Known())
	suite.False(LegType("").Known())
}

func (suite *LegTestSuite) TestParseLegs() {
	legs, err := ParseLegs(`[
		{"leg_type":"ENTRY","executed_at":"2024-03-01T10:00:00Z","price":100.5},
		{"leg_type":"EXIT","executed_at":"2024-03-04T15:30:00Z","price":110.25}
	]`)
	suite.NoError(err)
	suite.Len(legs, 2)
	suite.Equal(LegTypeEntry, legs[0].Type)
	suite.Equal("2024-03-01T10:00:00Z", legs[0].ExecutedAt)
	suite.Equal(100.5, legs[0].Price)
	suite.Equal(LegTypeExit, legs[1].Type)
}

func (suite *LegTestSuite) TestParseLegsEmptyInput() {
	legs, err := ParseLegs("")
	suite.NoError(err)
	suite.Nil(legs)

	legs, err = ParseLegs("[]")
	suite.NoError(err)
	suite.Empty(legs)
}

func (suite *LegTestSuite) TestParseLegsKeepsUnknownType() {
	legs, err := ParseLegs(`[{"leg_type":"HEDGE","executed_at":"2024-03-01","price":1}]`)
	suite.NoError(err)
	suite.Len(legs, 1)
	suite.False(legs[0].Type.Known())
}

func (suite *LegTestSuite) TestParseLegsKeepsMissingFields() {
	legs, err := ParseLegs(`[{"leg_type":"ENTRY"}]`)
	suite.NoError(err)
	suite.Len(legs, 1)
	suite.Empty(legs[0].ExecutedAt)
	suite.Zero(legs[0].Price)
}

func (suite *LegTestSuite) TestParseLegsRejectsMalformedJSON() {
	_, err := ParseLegs(`{"leg_type":"ENTRY"}`)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidLegList))
}
