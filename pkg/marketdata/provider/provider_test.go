package provider

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tradelens/chart-image/pkg/errors"
)

type ProviderTestSuite struct {
	suite.Suite
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (suite *ProviderTestSuite) TestNewProviderPolygon() {
	p, err := NewProvider(ProviderPolygon, "test-key")
	suite.NoError(err)
	suite.IsType(&PolygonClient{}, p)
}

func (suite *ProviderTestSuite) TestNewProviderPolygonRequiresKey() {
	_, err := NewProvider(ProviderPolygon, "")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ProviderTestSuite) TestNewProviderBinance() {
	p, err := NewProvider(ProviderBinance, "")
	suite.NoError(err)
	suite.IsType(&BinanceClient{}, p)
}

func (suite *ProviderTestSuite) TestNewProviderUnknown() {
	_, err := NewProvider(ProviderType("alpaca"), "")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedProvider))
}
