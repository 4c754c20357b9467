package kubeflow

// CreateRunRequest is the body of a run creation call
type CreateRunRequest struct {
	DisplayName   string        `json:"display_name"`
	PipelineSpec  PipelineSpec  `json:"pipeline_spec"`
	RuntimeConfig RuntimeConfig `json:"runtime_config"`
}

// PipelineSpec references a pipeline uploaded to the cluster
type PipelineSpec struct {
	PipelineID string `json:"pipeline_id"`
}

// RuntimeConfig holds the parameters passed to the run
type RuntimeConfig struct {
	Parameters map[string]string `json:"parameters"`
}

// Run is the decoded response of a run creation call. The API schema differs
// between releases, so the body is kept loosely typed.
type Run map[string]interface{}

// ID returns run_id, falling back to id. It returns nil when neither is set.
func (r Run) ID() interface{} {
	for _, key := range []string{"run_id", "id"} {
		if v, ok := r[key]; ok && !isZero(v) {
			return v
		}
	}
	return nil
}

func isZero(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}
