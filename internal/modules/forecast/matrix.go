package forecast

// PathMatrix is a trials × (days+1) grid of simulated values. Row t is one
// independent trial; column 0 holds the starting value of every trial.
// Matrices are read-only once built and safe to share across goroutines.
type PathMatrix [][]float64

// Trials returns the number of simulated trials (rows).
func (m PathMatrix) Trials() int {
	return len(m)
}

// Steps returns the number of columns (days + 1), or 0 for an empty matrix.
func (m PathMatrix) Steps() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// FinalColumn returns a copy of the last column: one final value per trial.
func (m PathMatrix) FinalColumn() []float64 {
	out := make([]float64, len(m))
	for t, row := range m {
		if len(row) > 0 {
			out[t] = row[len(row)-1]
		}
	}
	return out
}
