package ensemble

import (
	"testing"

	mat_ "github.com/aouyang1/go-healthforecast/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGradientBoostingOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *GradientBoostingOptions
		err      error
		expected *GradientBoostingOptions
	}{
		"nil": {nil, nil, NewDefaultGradientBoostingOptions()},
		"valid": {
			&GradientBoostingOptions{NumEstimators: 10, LearningRate: 0.5, MaxDepth: 2, MinSamplesLeaf: 1}, nil,
			&GradientBoostingOptions{NumEstimators: 10, LearningRate: 0.5, MaxDepth: 2, MinSamplesLeaf: 1},
		},
		"no estimators": {
			&GradientBoostingOptions{NumEstimators: 0, LearningRate: 0.1, MaxDepth: 3, MinSamplesLeaf: 1},
			ErrInvalidEstimators, nil,
		},
		"learning rate too high": {
			&GradientBoostingOptions{NumEstimators: 10, LearningRate: 1.5, MaxDepth: 3, MinSamplesLeaf: 1},
			ErrInvalidLearnRate, nil,
		},
		"zero depth": {
			&GradientBoostingOptions{NumEstimators: 10, LearningRate: 0.1, MaxDepth: 0, MinSamplesLeaf: 1},
			ErrInvalidMaxDepth, nil,
		},
		"zero leaf": {
			&GradientBoostingOptions{NumEstimators: 10, LearningRate: 0.1, MaxDepth: 3, MinSamplesLeaf: 0},
			ErrInvalidMinLeaf, nil,
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

func TestGradientBoostingRegressor(t *testing.T) {
	testData := map[string]struct {
		x        []float64
		y        []float64
		opt      *GradientBoostingOptions
		future   []float64
		expected []float64
		tol      float64
	}{
		"constant": {
			x:        []float64{2018, 2019, 2020, 2021, 2022},
			y:        []float64{50, 50, 50, 50, 50},
			future:   []float64{2023, 2024},
			expected: []float64{50, 50},
			tol:      1e-12,
		},
		"step": {
			x:        []float64{1, 2, 3, 4, 5, 6},
			y:        []float64{0, 0, 0, 10, 10, 10},
			future:   []float64{0, 2, 5, 100},
			expected: []float64{0, 0, 10, 10},
			tol:      1e-3,
		},
		"too few to split": {
			x:        []float64{1, 2, 3},
			y:        []float64{1, 2, 6},
			future:   []float64{1, 3, 10},
			expected: []float64{3, 3, 3},
			tol:      1e-12,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := mat_.NewColumn(td.x)
			require.Nil(t, err)
			y, err := mat_.NewColumn(td.y)
			require.Nil(t, err)

			model, err := NewGradientBoostingRegressor(td.opt)
			require.Nil(t, err)
			require.Nil(t, model.Fit(x, y))
			assert.Equal(t, NewDefaultGradientBoostingOptions().NumEstimators, model.NumTrees())

			future, err := mat_.NewColumn(td.future)
			require.Nil(t, err)
			res, err := model.Predict(future)
			require.Nil(t, err)
			assert.InDeltaSlice(t, td.expected, res, td.tol)
		})
	}
}

func TestGradientBoostingRegressorDeterministic(t *testing.T) {
	x, err := mat_.NewColumn([]float64{2015, 2016, 2017, 2018, 2019, 2020, 2021, 2022})
	require.Nil(t, err)
	y, err := mat_.NewColumn([]float64{3, 9, 4, 12, 8, 15, 11, 20})
	require.Nil(t, err)

	var prev []float64
	for range 3 {
		model, err := NewGradientBoostingRegressor(nil)
		require.Nil(t, err)
		require.Nil(t, model.Fit(x, y))

		res, err := model.Predict(x)
		require.Nil(t, err)
		if prev != nil {
			assert.Equal(t, prev, res)
		}
		prev = res

		r2, err := model.Score(x, y)
		require.Nil(t, err)
		assert.Greater(t, r2, 0.5)
	}
}

func TestGradientBoostingRegressorErrors(t *testing.T) {
	model, err := NewGradientBoostingRegressor(nil)
	require.Nil(t, err)

	x, err := mat_.NewColumn([]float64{1, 2, 3})
	require.Nil(t, err)

	_, err = model.Predict(x)
	assert.ErrorIs(t, err, ErrUntrainedModel)

	short := mat.NewDense(2, 1, []float64{1, 2})
	assert.ErrorIs(t, model.Fit(x, short), ErrTargetLenMismatch)

	require.Nil(t, model.Fit(x, x))
	wide := mat.NewDense(1, 2, []float64{1, 2})
	_, err = model.Predict(wide)
	assert.ErrorIs(t, err, ErrFeatureLenMismatch)

	var empty GradientBoostingRegressor
	assert.ErrorIs(t, empty.Fit(x, x), ErrNoOptions)
}

func TestGradientBoostingRegressorConstantTargetScore(t *testing.T) {
	x, err := mat_.NewColumn([]float64{2018, 2019, 2020, 2021, 2022})
	require.Nil(t, err)
	y, err := mat_.NewColumn([]float64{50, 50, 50, 50, 50})
	require.Nil(t, err)

	model, err := NewGradientBoostingRegressor(nil)
	require.Nil(t, err)
	require.Nil(t, model.Fit(x, y))

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, 1e-9)

	// a constant target predicted away from its value explains nothing
	shifted, err := mat_.NewColumn([]float64{60, 60, 60, 60, 60})
	require.Nil(t, err)
	r2, err = model.Score(x, shifted)
	require.Nil(t, err)
	assert.Equal(t, 0.0, r2)
}
