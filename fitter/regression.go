package fitter

import (
	"fmt"

	"github.com/aouyang1/go-healthforecast/ensemble"
	"github.com/aouyang1/go-healthforecast/linearmodel"
	mat_ "github.com/aouyang1/go-healthforecast/mat"
	"github.com/aouyang1/go-healthforecast/timedataset"
)

// fitRegression regresses value on year, scores the in-sample fit over the entire series and
// predicts each horizon year. R2 comes from the model's own Score.
func fitRegression(name Name, model linearmodel.Model, series *timedataset.TimeDataset, horizon []int) Result {
	x, err := mat_.NewColumn(series.Features())
	if err != nil {
		return Failure(name, fmt.Errorf("unable to build design matrix, %w", err))
	}
	y, err := mat_.NewColumn(series.Y)
	if err != nil {
		return Failure(name, fmt.Errorf("unable to build target matrix, %w", err))
	}
	if err := model.Fit(x, y); err != nil {
		return Failure(name, err)
	}

	fitted, err := model.Predict(x)
	if err != nil {
		return Failure(name, err)
	}
	mape, err := MAPE(fitted, series.Y)
	if err != nil {
		return Failure(name, err)
	}
	mse, err := MSE(fitted, series.Y)
	if err != nil {
		return Failure(name, err)
	}
	r2, err := model.Score(x, y)
	if err != nil {
		return Failure(name, fmt.Errorf("unable to compute r-squared, %w", err))
	}

	future, err := mat_.NewColumn(timedataset.YearSlice(horizon).Floats())
	if err != nil {
		return Failure(name, fmt.Errorf("unable to build horizon matrix, %w", err))
	}
	forecast, err := model.Predict(future)
	if err != nil {
		return Failure(name, err)
	}
	return withScores(Success(name, horizon, forecast, mape), &Scores{MSE: mse, MAPE: mape, R2: r2})
}

// LinearFitter forecasts with an ordinary least squares trend on year
type LinearFitter struct {
	opt *Options
}

// NewLinearFitter returns the linear regression strategy
func NewLinearFitter(opt *Options) (*LinearFitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &LinearFitter{opt: opt}, nil
}

func (l *LinearFitter) Name() Name {
	return LinearRegression
}

func (l *LinearFitter) Fit(series *timedataset.TimeDataset, horizon []int) Result {
	model, err := linearmodel.NewOLSRegression(l.opt.OLS)
	if err != nil {
		return Failure(LinearRegression, err)
	}
	return fitRegression(LinearRegression, model, series, horizon)
}

// BoostingFitter forecasts with gradient boosted regression trees on year
type BoostingFitter struct {
	opt *Options
}

// NewBoostingFitter returns the gradient boosting strategy
func NewBoostingFitter(opt *Options) (*BoostingFitter, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &BoostingFitter{opt: opt}, nil
}

func (b *BoostingFitter) Name() Name {
	return GradientBoosting
}

func (b *BoostingFitter) Fit(series *timedataset.TimeDataset, horizon []int) Result {
	model, err := ensemble.NewGradientBoostingRegressor(b.opt.Boosting)
	if err != nil {
		return Failure(GradientBoosting, err)
	}
	return fitRegression(GradientBoosting, model, series, horizon)
}
