package linearmodel

import (
	"testing"

	mat_ "github.com/aouyang1/go-healthforecast/mat"
	"github.com/aouyang1/go-healthforecast/timedataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestOLSOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *OLSOptions
		err      error
		expected *OLSOptions
	}{
		"nil": {nil, nil, NewDefaultOLSOptions()},
		"valid": {
			&OLSOptions{
				FitIntercept: true,
			}, nil,
			&OLSOptions{
				FitIntercept: true,
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestOLSRegression(t *testing.T) {
	tol := 1e-5
	testData := map[string]struct {
		x         [][]float64
		y         []float64
		opt       *OLSOptions
		intercept float64
		coef      []float64
	}{
		"ols model intercept": {
			x: [][]float64{
				{0, 0},
				{3, 5},
				{9, 20},
				{12, 6},
				{15, 10},
			},
			y:         []float64{2, 31, 109, 62, 87},
			intercept: 2.0,
			coef:      []float64{3.0, 4.0},
		},
		"ols model no intercept": {
			x: [][]float64{
				{1, 0, 0},
				{1, 3, 5},
				{1, 9, 20},
				{1, 12, 6},
				{1, 15, 10},
			},
			y: []float64{2, 31, 109, 62, 87},
			opt: &OLSOptions{
				FitIntercept: false,
			},
			intercept: 0.0,
			coef:      []float64{2.0, 3.0, 4.0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := mat_.NewDenseFromArray(td.x)
			require.Nil(t, err)

			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewOLSRegression(td.opt)
			require.Nil(t, err)

			testModel(t, model, x, y, td.intercept, td.coef, tol)
		})
	}
}

func TestOLSRegressionYearTrend(t *testing.T) {
	years := timedataset.GenerateYears(2018, 5)
	y := timedataset.GenerateLinearY(years, 99.0, 11.5)

	x, err := mat_.NewColumn(timedataset.YearSlice(years).Floats())
	require.Nil(t, err)
	yMx, err := mat_.NewColumn(y)
	require.Nil(t, err)

	model, err := NewOLSRegression(nil)
	require.Nil(t, err)
	testModel(t, model, x, yMx, -23108.0, []float64{11.5}, 1e-4)

	future, err := mat_.NewColumn([]float64{2023, 2024, 2025, 2026, 2027})
	require.Nil(t, err)
	res, err := model.Predict(future)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{156.5, 168.0, 179.5, 191.0, 202.5}, res, 1e-6)
}

func TestOLSRegressionErrors(t *testing.T) {
	testData := map[string]struct {
		x   [][]float64
		y   []float64
		err error
	}{
		"target mismatch": {
			x:   [][]float64{{1}, {2}, {3}},
			y:   []float64{1, 2},
			err: ErrTargetLenMismatch,
		},
		"underdetermined": {
			x:   [][]float64{{2020}},
			y:   []float64{4},
			err: ErrUnderdetermined,
		},
		"singular": {
			x:   [][]float64{{5}, {5}, {5}},
			y:   []float64{1, 2, 3},
			err: ErrSingularDesign,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := mat_.NewDenseFromArray(td.x)
			require.Nil(t, err)
			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewOLSRegression(nil)
			require.Nil(t, err)

			err = model.Fit(x, y)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestOLSRegressionUntrained(t *testing.T) {
	model, err := NewOLSRegression(nil)
	require.Nil(t, err)

	x, err := mat_.NewColumn([]float64{1, 2})
	require.Nil(t, err)
	_, err = model.Predict(x)
	assert.ErrorIs(t, err, ErrUntrainedModel)

	var empty OLSRegression
	require.ErrorIs(t, empty.Fit(x, x), ErrNoOptions)
}

func TestOLSRegressionConstantTargetScore(t *testing.T) {
	x, err := mat_.NewColumn([]float64{2018, 2019, 2020, 2021, 2022})
	require.Nil(t, err)
	y, err := mat_.NewColumn([]float64{50, 50, 50, 50, 50})
	require.Nil(t, err)

	model, err := NewOLSRegression(nil)
	require.Nil(t, err)
	require.Nil(t, model.Fit(x, y))

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, 1e-9)
}
