package relay

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

const (
	// DefaultImageName is used when the request does not name an image
	DefaultImageName = "loprych/kfp-repo:latest"

	runNamePrefix = "github-trigger-"
	shortSHALen   = 7
)

// TriggerRequest is the inbound webhook body. Every field is optional.
type TriggerRequest struct {
	ImageName     string `json:"image_name"`
	CommitSHA     string `json:"commit_sha"`
	CommitMessage string `json:"commit_message"`
	PipelineID    string `json:"pipeline_id"`
}

// DecodeTriggerRequest parses a request body. An empty or null body yields
// the defaults.
func DecodeTriggerRequest(body []byte) (TriggerRequest, error) {
	var req TriggerRequest

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &req); err != nil {
			return TriggerRequest{}, &BadRequestError{Err: err}
		}
	}

	if req.ImageName == "" {
		req.ImageName = DefaultImageName
	}

	return req, nil
}

// Parameters returns the pipeline runtime parameters. image_name is always
// present; commit fields only when non-empty.
func (r TriggerRequest) Parameters() map[string]string {
	params := map[string]string{
		"image_name": r.ImageName,
	}
	if r.ImageName == "" {
		params["image_name"] = DefaultImageName
	}
	if r.CommitSHA != "" {
		params["commit_sha"] = r.CommitSHA
	}
	if r.CommitMessage != "" {
		params["commit_message"] = r.CommitMessage
	}
	return params
}

// ResolvePipelineID picks the request's pipeline id, falling back to the
// configured default
func (r TriggerRequest) ResolvePipelineID(defaultID string) (string, error) {
	if r.PipelineID != "" {
		return r.PipelineID, nil
	}
	if defaultID != "" {
		return defaultID, nil
	}
	return "", ErrNoPipelineID
}

// RunName derives the display name of a run from the commit, or from the
// current unix time when there is no commit
func RunName(commitSHA string, now time.Time) string {
	if commitSHA != "" {
		if r := []rune(commitSHA); len(r) > shortSHALen {
			commitSHA = string(r[:shortSHALen])
		}
		return runNamePrefix + commitSHA
	}
	return runNamePrefix + strconv.FormatInt(now.Unix(), 10)
}
