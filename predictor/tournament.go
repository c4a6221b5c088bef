package predictor

// Tournament chooses between two sub-predictors with a saturating selector.
// A taken selector picks the second predictor.
type Tournament struct {
	predictors [2]Predictor
	selector   SaturatingCounter
}

// NewTournament combines two predictors under a selector of the given width.
// The tournament takes ownership of both predictors.
func NewTournament(p0, p1 Predictor, selectorWidth uint) *Tournament {
	return &Tournament{
		predictors: [2]Predictor{p0, p1},
		selector:   NewSaturatingCounter(selectorWidth),
	}
}

// Predict delegates to the currently selected predictor.
func (t *Tournament) Predict(addr uint64) bool {
	if t.selector.IsTaken() {
		return t.predictors[1].Predict(addr)
	}

	return t.predictors[0].Predict(addr)
}

// Update moves the selector toward whichever predictor alone was right, then
// trains both predictors with the actual outcome.
func (t *Tournament) Update(taken, predicted bool, addr uint64) {
	p0 := t.predictors[0].Predict(addr) == taken
	p1 := t.predictors[1].Predict(addr) == taken

	switch {
	case p0 && !p1:
		t.selector.Decrease()
	case p1 && !p0:
		t.selector.Increase()
	}

	t.predictors[0].Update(taken, predicted, addr)
	t.predictors[1].Update(taken, predicted, addr)
}

// Selected returns 0 or 1, the predictor Predict currently delegates to.
func (t *Tournament) Selected() int {
	if t.selector.IsTaken() {
		return 1
	}

	return 0
}

// Selector returns a copy of the selector counter.
func (t *Tournament) Selector() SaturatingCounter {
	return t.selector
}
