package tsa

import "errors"

var (
	ErrInsufficientData  = errors.New("not enough observations to fit model")
	ErrNonFiniteSeries   = errors.New("series contains non-finite values")
	ErrOptimize          = errors.New("parameter optimization failed")
	ErrUntrainedModel    = errors.New("model has not been fit")
	ErrInvalidIterations = errors.New("max iterations must be positive")
	ErrInvalidSmoothing  = errors.New("initial smoothing parameter must be in (0, 1)")
	ErrInvalidSteps      = errors.New("forecast steps must be positive")
)
