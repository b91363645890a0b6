package forecast

import (
	"fmt"
	"math"
)

// WeightTolerance is the maximum allowed deviation of a weight vector's sum
// from 1.0.
const WeightTolerance = 1e-6

// ValidateWeights checks that every weight is non-negative and that the
// weights sum to 1 within WeightTolerance.
func ValidateWeights(weights []float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: no weights provided", ErrInvalidParameter)
	}

	sum := 0.0
	for i, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v at index %d", ErrInvalidParameter, w, i)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("%w: weights sum to %v, expected 1", ErrInvalidParameter, sum)
	}

	return nil
}

// AggregatePortfolio combines per-stock path matrices into a portfolio value
// matrix of the same shape. For every (trial, day) cell:
//
//	portfolio[t][d] = investment · Σᵢ weights[i] · (paths[i][t][d] / paths[i][t][0])
//
// i.e. each stock contributes its weighted fractional return scaled by the
// total invested amount, so portfolio[t][0] == investment for every trial.
//
// Returns ErrShapeMismatch if the matrices differ in trial or day count, and
// ErrInvalidParameter for a bad weight vector, a weight count that does not
// match the number of matrices, or a non-positive investment.
func AggregatePortfolio(paths []PathMatrix, weights []float64, investment float64) (PathMatrix, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no stock paths provided", ErrInvalidInput)
	}
	if len(weights) != len(paths) {
		return nil, fmt.Errorf("%w: %d weights for %d stocks", ErrInvalidParameter, len(weights), len(paths))
	}
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	if investment <= 0 {
		return nil, fmt.Errorf("%w: investment must be positive, got %v", ErrInvalidParameter, investment)
	}

	trials := paths[0].Trials()
	steps := paths[0].Steps()
	for i, p := range paths {
		if p.Trials() != trials || p.Steps() != steps {
			return nil, fmt.Errorf("%w: matrix %d is %dx%d, expected %dx%d",
				ErrShapeMismatch, i, p.Trials(), p.Steps(), trials, steps)
		}
	}

	portfolio := make(PathMatrix, trials)
	for t := 0; t < trials; t++ {
		row := make([]float64, steps)
		for d := 0; d < steps; d++ {
			value := 0.0
			for i, p := range paths {
				value += weights[i] * (p[t][d] / p[t][0])
			}
			row[d] = investment * value
		}
		portfolio[t] = row
	}

	return portfolio, nil
}
