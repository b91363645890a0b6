package forecast

import "errors"

// Error taxonomy for the forecasting pipeline. Callers are expected to match
// with errors.Is; every error returned by this package wraps one of these.
var (
	// ErrInvalidInput indicates malformed or insufficient historical data
	// (non-positive price, fewer than two data points, empty return series).
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidParameter indicates a bad simulation configuration
	// (non-positive trials/days/start price, negative volatility, bad weights).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrShapeMismatch indicates mismatched matrix dimensions during aggregation.
	ErrShapeMismatch = errors.New("matrix shape mismatch")
)
