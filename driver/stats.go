package driver

// Stats holds the outcome tallies of a simulation run.
type Stats struct {
	// TakenCorrect counts branches predicted taken that were taken.
	TakenCorrect uint64
	// TakenIncorrect counts branches predicted taken that were not taken.
	TakenIncorrect uint64
	// NotTakenCorrect counts branches predicted not taken that were not taken.
	NotTakenCorrect uint64
	// NotTakenIncorrect counts branches predicted not taken that were taken.
	NotTakenIncorrect uint64

	// BTBHits is the number of taken branches whose target the BTB held.
	BTBHits uint64
	// BTBMisses is the number of taken branches whose target the BTB missed.
	BTBMisses uint64
}

// record classifies one prediction.
func (s *Stats) record(predicted, taken bool) {
	switch {
	case predicted && taken:
		s.TakenCorrect++
	case predicted && !taken:
		s.TakenIncorrect++
	case !predicted && !taken:
		s.NotTakenCorrect++
	default:
		s.NotTakenIncorrect++
	}
}

// Total returns the number of branches simulated.
func (s Stats) Total() uint64 {
	return s.TakenCorrect + s.TakenIncorrect +
		s.NotTakenCorrect + s.NotTakenIncorrect
}

// Correct returns the number of correct predictions.
func (s Stats) Correct() uint64 {
	return s.TakenCorrect + s.NotTakenCorrect
}

// Mispredictions returns the number of incorrect predictions.
func (s Stats) Mispredictions() uint64 {
	return s.TakenIncorrect + s.NotTakenIncorrect
}

// Precision returns the prediction accuracy as a percentage.
func (s Stats) Precision() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return 100 * float64(s.Correct()) / float64(total)
}

// BTBHitRate returns the BTB hit rate as a percentage.
func (s Stats) BTBHitRate() float64 {
	total := s.BTBHits + s.BTBMisses
	if total == 0 {
		return 0
	}
	return float64(s.BTBHits) / float64(total) * 100
}
