package relay

import (
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTriggerRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want TriggerRequest
	}{
		{
			name: "empty body",
			body: "",
			want: TriggerRequest{ImageName: DefaultImageName},
		},
		{
			name: "null body",
			body: " null ",
			want: TriggerRequest{ImageName: DefaultImageName},
		},
		{
			name: "empty object",
			body: "{}",
			want: TriggerRequest{ImageName: DefaultImageName},
		},
		{
			name: "all fields",
			body: `{"image_name":"img:v2","commit_sha":"1234567890","commit_message":"fix","pipeline_id":"p1"}`,
			want: TriggerRequest{
				ImageName:     "img:v2",
				CommitSHA:     "1234567890",
				CommitMessage: "fix",
				PipelineID:    "p1",
			},
		},
		{
			name: "unknown fields ignored",
			body: `{"ref":"refs/heads/main","commit_sha":"abc"}`,
			want: TriggerRequest{ImageName: DefaultImageName, CommitSHA: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTriggerRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeTriggerRequestInvalid(t *testing.T) {
	for _, body := range []string{`{"image_name":`, `[1,2]`, `{"commit_sha":42}`} {
		_, err := DecodeTriggerRequest([]byte(body))

		var badReq *BadRequestError
		assert.ErrorAs(t, err, &badReq, body)
	}
}

func TestParametersAlwaysIncludeImage(t *testing.T) {
	params := TriggerRequest{}.Parameters()
	assert.Equal(t, map[string]string{"image_name": DefaultImageName}, params)

	params = TriggerRequest{ImageName: "img:v2", CommitSHA: "1234567890"}.Parameters()
	assert.Equal(t, map[string]string{
		"image_name": "img:v2",
		"commit_sha": "1234567890",
	}, params)

	params = TriggerRequest{ImageName: "img", CommitMessage: "msg"}.Parameters()
	assert.Equal(t, map[string]string{
		"image_name":     "img",
		"commit_message": "msg",
	}, params)
}

func TestResolvePipelineID(t *testing.T) {
	id, err := TriggerRequest{PipelineID: "from-request"}.ResolvePipelineID("default")
	require.NoError(t, err)
	assert.Equal(t, "from-request", id)

	id, err = TriggerRequest{}.ResolvePipelineID("default")
	require.NoError(t, err)
	assert.Equal(t, "default", id)

	_, err = TriggerRequest{}.ResolvePipelineID("")
	assert.ErrorIs(t, err, ErrNoPipelineID)
}

func TestRunName(t *testing.T) {
	now := time.Unix(1700000000, 0)

	assert.Equal(t, "github-trigger-abcdef1", RunName("abcdef1234", now))
	assert.Equal(t, "github-trigger-abc", RunName("abc", now))
	assert.Equal(t, "github-trigger-1700000000", RunName("", now))
}

func TestRunNameUsesCurrentTime(t *testing.T) {
	before := time.Now().Unix()
	name := RunName("", time.Now())
	after := time.Now().Unix()

	m := regexp.MustCompile(`^github-trigger-(\d+)$`).FindStringSubmatch(name)
	require.Len(t, m, 2)

	ts, err := strconv.ParseInt(m[1], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}
