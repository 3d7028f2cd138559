package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tradelens/chart-image/internal/types"
	"github.com/tradelens/chart-image/pkg/errors"
)

type FigureTestSuite struct {
	suite.Suite
	theme Theme
}

func TestFigureSuite(t *testing.T) {
	suite.Run(t, new(FigureTestSuite))
}

func (suite *FigureTestSuite) SetupTest() {
	suite.theme = Theme{
		Width:      640,
		Height:     320,
		Background: "#18181b",
		Grid:       "#27272a",
		Label:      "#a1a1aa",
		CandleUp:   "#10b981",
		CandleDown: "#ef4444",
		VolumeUp:   "#10b98150",
		VolumeDown: "#ef444450",
	}
}

func (suite *FigureTestSuite) newSeries(n int) *types.Series {
	bars := make([]types.MarketData, 0, n)
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		price := 100.0 + float64(i)
		bars = append(bars, types.MarketData{
			Time:   base.AddDate(0, 0, i),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: 1000 * float64(i+1),
		})
	}

	return types.NewSeries(bars, time.UTC)
}

func (suite *FigureTestSuite) TestNewFigureRejectsEmptySeries() {
	_, err := NewFigure(types.NewSeries(nil, time.UTC), suite.theme, true)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataUnavailable))
}

func (suite *FigureTestSuite) TestNewFigureRejectsBadDimensions() {
	theme := suite.theme
	theme.Width = 0

	_, err := NewFigure(suite.newSeries(5), theme, true)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *FigureTestSuite) TestDefaultYLimCoversSeries() {
	fig, err := NewFigure(suite.newSeries(5), suite.theme, true)
	suite.Require().NoError(err)

	defer fig.Close()

	yMin, yMax := fig.YLim()
	low, high, _ := suite.newSeries(5).PriceRange()

	suite.Less(yMin, low)
	suite.Greater(yMax, high)
}

func (suite *FigureTestSuite) TestSetYLimIgnoresInvertedRange() {
	fig, err := NewFigure(suite.newSeries(5), suite.theme, true)
	suite.Require().NoError(err)

	defer fig.Close()

	before, after := fig.YLim()
	fig.SetYLim(50, 40)

	gotMin, gotMax := fig.YLim()
	suite.Equal(before, gotMin)
	suite.Equal(after, gotMax)
}

func (suite *FigureTestSuite) TestEncodePNGProducesImage() {
	fig, err := NewFigure(suite.newSeries(10), suite.theme, true)
	suite.Require().NoError(err)

	defer fig.Close()

	fig.SetTitle("AAPL - Daily")
	fig.AddHLine(HLine{Price: 105, Color: "#10b981", Dashed: true, Label: "Entry $105.00"})
	fig.AddMarker(Marker{
		X:         2,
		Y:         100,
		Shape:     MarkerTriangleUp,
		Color:     "#10b981",
		Size:      7,
		EdgeColor: "#ffffff",
		EdgeWidth: 1,
	})

	img, err := fig.EncodePNG()
	suite.NoError(err)
	suite.NotEmpty(img)

	// PNG magic bytes.
	suite.Equal([]byte{0x89, 0x50, 0x4e, 0x47}, img[:4])
}

func (suite *FigureTestSuite) TestEncodePNGFlatSeries() {
	bars := []types.MarketData{
		{Time: time.Now(), Open: 100, High: 100, Low: 100, Close: 100, Volume: 0},
	}

	fig, err := NewFigure(types.NewSeries(bars, time.UTC), suite.theme, true)
	suite.Require().NoError(err)

	defer fig.Close()

	img, err := fig.EncodePNG()
	suite.NoError(err)
	suite.NotEmpty(img)
}

func (suite *FigureTestSuite) TestEncodePNGWithoutVolumePane() {
	fig, err := NewFigure(suite.newSeries(5), suite.theme, false)
	suite.Require().NoError(err)

	defer fig.Close()

	img, err := fig.EncodePNG()
	suite.NoError(err)
	suite.NotEmpty(img)
}

func (suite *FigureTestSuite) TestEncodeAfterCloseFails() {
	fig, err := NewFigure(suite.newSeries(5), suite.theme, true)
	suite.Require().NoError(err)

	fig.Close()

	_, err = fig.EncodePNG()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEncodeFailed))
}
