package predictor

// Predictor is a branch direction predictor.
//
// Predict must be called before Update for the same branch event. Some
// predictors (TAGE) remember which component produced the prediction and
// rely on it in the following Update.
type Predictor interface {
	// Predict returns whether the branch at addr is expected to be taken.
	Predict(addr uint64) bool

	// Update trains the predictor with the actual outcome. predicted is the
	// value the preceding Predict call returned.
	Update(taken, predicted bool, addr uint64)
}
