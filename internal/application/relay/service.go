package relay

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/aescanero/kfp-webhook/pkg/adapters/kubeflow"
	"go.uber.org/zap"
)

// Trigger outcomes reported to the metrics recorder
const (
	OutcomeSuccess         = "success"
	OutcomeUnauthorized    = "unauthorized"
	OutcomeBadRequest      = "bad_request"
	OutcomeNoPipelineID    = "no_pipeline_id"
	OutcomeDownstreamError = "downstream_error"
	OutcomeInternalError   = "internal_error"
)

// CredentialSource supplies the bearer token for the pipelines API
type CredentialSource interface {
	Fetch(ctx context.Context) (string, error)
}

// RunCreator creates pipeline runs
type RunCreator interface {
	CreateRun(ctx context.Context, token string, req *kubeflow.CreateRunRequest) (kubeflow.Run, error)
}

// MetricsRecorder receives trigger metrics
type MetricsRecorder interface {
	RecordTrigger(outcome string)
	ObserveDownstream(code string, duration time.Duration)
	RecordTokenRead(result string)
}

// Result describes a created run
type Result struct {
	RunID      interface{}
	RunName    string
	PipelineID string
	Parameters map[string]string
}

// Service turns trigger requests into pipeline runs
type Service struct {
	defaultPipelineID string
	runs              RunCreator
	credentials       CredentialSource
	metrics           MetricsRecorder
	logger            *zap.Logger
	now               func() time.Time
}

// Config holds service dependencies
type Config struct {
	DefaultPipelineID string
	Runs              RunCreator
	Credentials       CredentialSource
	Metrics           MetricsRecorder
	Logger            *zap.Logger

	// Now defaults to time.Now
	Now func() time.Time
}

// NewService creates a new relay service
func NewService(cfg *Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		defaultPipelineID: cfg.DefaultPipelineID,
		runs:              cfg.Runs,
		credentials:       cfg.Credentials,
		metrics:           metrics,
		logger:            logger,
		now:               now,
	}
}

// Trigger creates a run for req. Errors are one of ErrNoPipelineID,
// *DownstreamError or *InternalError.
func (s *Service) Trigger(ctx context.Context, req TriggerRequest) (*Result, error) {
	s.logger.Info("received webhook trigger",
		zap.String("image_name", req.ImageName),
		zap.String("commit_sha", req.CommitSHA),
		zap.String("commit_message", req.CommitMessage),
		zap.String("pipeline_id", req.PipelineID))

	params := req.Parameters()
	token := s.fetchToken(ctx)

	pipelineID, err := req.ResolvePipelineID(s.defaultPipelineID)
	if err != nil {
		s.logger.Warn("rejecting trigger", zap.Error(err))
		s.metrics.RecordTrigger(OutcomeNoPipelineID)
		return nil, err
	}

	runName := RunName(req.CommitSHA, s.now())

	runReq := &kubeflow.CreateRunRequest{
		DisplayName:  runName,
		PipelineSpec: kubeflow.PipelineSpec{PipelineID: pipelineID},
		RuntimeConfig: kubeflow.RuntimeConfig{
			Parameters: params,
		},
	}

	start := time.Now()
	run, err := s.runs.CreateRun(ctx, token, runReq)
	s.metrics.ObserveDownstream(downstreamCode(err), time.Since(start))
	if err != nil {
		if errors.Is(err, kubeflow.ErrInvalidResponse) {
			s.logger.Error("unexpected error", zap.String("run_name", runName), zap.Error(err))
			s.metrics.RecordTrigger(OutcomeInternalError)
			return nil, &InternalError{Err: err}
		}

		s.logger.Error("error triggering pipeline", zap.String("run_name", runName), zap.Error(err))
		s.metrics.RecordTrigger(OutcomeDownstreamError)
		return nil, &DownstreamError{Err: err}
	}

	result := &Result{
		RunID:      run.ID(),
		RunName:    runName,
		PipelineID: pipelineID,
		Parameters: params,
	}

	s.logger.Info("pipeline triggered successfully",
		zap.String("run_name", runName),
		zap.String("pipeline_id", pipelineID),
		zap.Any("run_id", result.RunID))
	s.metrics.RecordTrigger(OutcomeSuccess)

	return result, nil
}

// RecordUnauthorized counts a request rejected before reaching Trigger
func (s *Service) RecordUnauthorized() {
	s.metrics.RecordTrigger(OutcomeUnauthorized)
}

// RecordBadRequest counts a request whose body could not be decoded
func (s *Service) RecordBadRequest() {
	s.metrics.RecordTrigger(OutcomeBadRequest)
}

// fetchToken returns the outbound token, or "" when it cannot be read
func (s *Service) fetchToken(ctx context.Context) string {
	if s.credentials == nil {
		return ""
	}

	token, err := s.credentials.Fetch(ctx)
	switch {
	case err == nil:
		s.logger.Info("successfully read Kubeflow token")
		s.metrics.RecordTokenRead("ok")
		return token
	case errors.Is(err, os.ErrNotExist):
		s.logger.Warn("Kubeflow token file not found, continuing without authentication", zap.Error(err))
		s.metrics.RecordTokenRead("missing")
	default:
		s.logger.Error("error reading Kubeflow token, continuing without authentication", zap.Error(err))
		s.metrics.RecordTokenRead("error")
	}
	return ""
}

func downstreamCode(err error) string {
	if err == nil {
		return "2xx"
	}
	var statusErr *kubeflow.StatusError
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.StatusCode)
	}
	if errors.Is(err, kubeflow.ErrInvalidResponse) {
		return "2xx"
	}
	return "error"
}

type noopMetrics struct{}

func (noopMetrics) RecordTrigger(string)                    {}
func (noopMetrics) ObserveDownstream(string, time.Duration) {}
func (noopMetrics) RecordTokenRead(string)                  {}
