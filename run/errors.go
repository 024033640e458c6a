package run

import "errors"

var (
	// ErrPipelineRequired is returned when a Runner is created without a
	// pipeline.
	ErrPipelineRequired = errors.New("answer pipeline is required")

	// ErrProgressLogRequired is returned when a Runner is created without a
	// progress log to append results to.
	ErrProgressLogRequired = errors.New("progress log is required")
)
