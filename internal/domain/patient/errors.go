package patient

import "errors"

var (
	ErrInvalidGender      = errors.New("invalid gender value")
	ErrInvalidMeasurement = errors.New("patient measurements must be positive")
)
