package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the inbound bearer token is missing or wrong
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoPipelineID is returned when neither the request nor the config names a pipeline
	ErrNoPipelineID = errors.New("no pipeline_id provided and no default set")
)

// BadRequestError reports a request body that could not be decoded
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

// DownstreamError reports a transport failure or a non-2xx answer from the
// pipelines API
type DownstreamError struct {
	Err error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("failed to trigger pipeline: %v", e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

// InternalError reports any other failure while handling a trigger
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}
