// Package ensemble implements tree ensemble regressors
package ensemble

import (
	"fmt"

	"github.com/aouyang1/go-healthforecast/stats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// GradientBoostingOptions configures a least squares gradient boosted tree regressor
type GradientBoostingOptions struct {
	NumEstimators  int     `yaml:"num_estimators" split_words:"true"`
	LearningRate   float64 `yaml:"learning_rate" split_words:"true"`
	MaxDepth       int     `yaml:"max_depth" split_words:"true"`
	MinSamplesLeaf int     `yaml:"min_samples_leaf" split_words:"true"`
}

// NewDefaultGradientBoostingOptions returns 100 depth 3 trees with a shrinkage of 0.1
func NewDefaultGradientBoostingOptions() *GradientBoostingOptions {
	return &GradientBoostingOptions{
		NumEstimators:  100,
		LearningRate:   0.1,
		MaxDepth:       3,
		MinSamplesLeaf: 2,
	}
}

// Validate runs basic validation on gradient boosting options
func (o *GradientBoostingOptions) Validate() (*GradientBoostingOptions, error) {
	if o == nil {
		return NewDefaultGradientBoostingOptions(), nil
	}
	if o.NumEstimators <= 0 {
		return nil, fmt.Errorf("got %d estimators, %w", o.NumEstimators, ErrInvalidEstimators)
	}
	if o.LearningRate <= 0 || o.LearningRate > 1 {
		return nil, fmt.Errorf("got learning rate of %.4f, %w", o.LearningRate, ErrInvalidLearnRate)
	}
	if o.MaxDepth <= 0 {
		return nil, fmt.Errorf("got max depth of %d, %w", o.MaxDepth, ErrInvalidMaxDepth)
	}
	if o.MinSamplesLeaf <= 0 {
		return nil, fmt.Errorf("got min samples per leaf of %d, %w", o.MinSamplesLeaf, ErrInvalidMinLeaf)
	}
	return o, nil
}

// GradientBoostingRegressor fits an additive ensemble of regression trees to the residuals of
// the running prediction, starting from the target mean
type GradientBoostingRegressor struct {
	opt   *GradientBoostingOptions
	init  float64
	trees []*node
	nFeat int
}

// NewGradientBoostingRegressor initializes a regressor ready for fitting
func NewGradientBoostingRegressor(opt *GradientBoostingOptions) (*GradientBoostingRegressor, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &GradientBoostingRegressor{opt: opt}, nil
}

// Fit the ensemble on design matrix x and single column target y
func (g *GradientBoostingRegressor) Fit(x, y mat.Matrix) error {
	if g.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, n := x.Dims()
	if m == 0 || n == 0 {
		return ErrNoObservations
	}
	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}

	rows := make([][]float64, m)
	for i := range m {
		rows[i] = mat.Row(nil, i, x)
	}
	target := mat.Col(nil, 0, y)

	g.init = stat.Mean(target, nil)
	g.nFeat = n
	g.trees = make([]*node, 0, g.opt.NumEstimators)

	pred := make([]float64, m)
	for i := range pred {
		pred[i] = g.init
	}

	idx := make([]int, m)
	for i := range idx {
		idx[i] = i
	}

	builder := &treeBuilder{
		x:        rows,
		maxDepth: g.opt.MaxDepth,
		minLeaf:  g.opt.MinSamplesLeaf,
	}
	resid := make([]float64, m)
	for range g.opt.NumEstimators {
		for i := range resid {
			resid[i] = target[i] - pred[i]
		}
		tree := builder.build(idx, resid, 0)
		g.trees = append(g.trees, tree)
		for i, obs := range rows {
			pred[i] += g.opt.LearningRate * tree.predict(obs)
		}
	}
	return nil
}

// Predict the target for each row of x
func (g *GradientBoostingRegressor) Predict(x mat.Matrix) ([]float64, error) {
	if g.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if g.trees == nil {
		return nil, ErrUntrainedModel
	}
	m, n := x.Dims()
	if n != g.nFeat {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, g.nFeat, ErrFeatureLenMismatch)
	}

	res := make([]float64, m)
	obs := make([]float64, n)
	for i := range m {
		mat.Row(obs, i, x)
		v := g.init
		for _, tree := range g.trees {
			v += g.opt.LearningRate * tree.predict(obs)
		}
		res[i] = v
	}
	return res, nil
}

// Score computes the coefficient of determination of the prediction
func (g *GradientBoostingRegressor) Score(x, y mat.Matrix) (float64, error) {
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}
	res, err := g.Predict(x)
	if err != nil {
		return 0.0, err
	}
	ym, _ := y.Dims()
	if ym != len(res) {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", len(res), ym, ErrTargetLenMismatch)
	}
	return stats.RSquared(res, mat.Col(nil, 0, y)), nil
}

// Intercept returns the initial constant prediction of the ensemble
func (g *GradientBoostingRegressor) Intercept() float64 {
	return g.init
}

// Coef is empty for tree ensembles
func (g *GradientBoostingRegressor) Coef() []float64 {
	return nil
}

// NumTrees returns the number of fitted trees
func (g *GradientBoostingRegressor) NumTrees() int {
	return len(g.trees)
}
