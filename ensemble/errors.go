package ensemble

import "errors"

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrInvalidEstimators  = errors.New("number of estimators must be positive")
	ErrInvalidLearnRate   = errors.New("learning rate must be in (0, 1]")
	ErrInvalidMaxDepth    = errors.New("max depth must be positive")
	ErrInvalidMinLeaf     = errors.New("min samples per leaf must be positive")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrTargetLenMismatch  = errors.New("target length does not match target rows")
	ErrFeatureLenMismatch = errors.New("number of features does not match trained model")
	ErrNoObservations     = errors.New("no observations to fit")
	ErrUntrainedModel     = errors.New("model has not been fit")
)
