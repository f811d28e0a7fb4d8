package environment_test

import (
	"testing"

	"github.com/skskillls/thesis-benchmark/internal/environment"
	"github.com/stretchr/testify/require"
)

func TestReadEnvConfigDefaults(t *testing.T) {
	t.Setenv("RESULTS_DIR", "")
	t.Setenv("CI_SYSTEM", "")
	t.Setenv("BENCH_SAVE_BUILD_LOG", "")

	cfg := environment.ReadEnvConfig()

	require.Equal(t, environment.DefaultResultsDir, cfg.ResultsDir)
	require.Equal(t, environment.DefaultCiSystem, cfg.CiSystem)
	require.Equal(t, environment.DefaultImageRef, cfg.ImageRef)
	require.Equal(t, environment.DefaultNatsSubject, cfg.NatsSubject)
	require.False(t, cfg.SaveBuildLog)
	require.Empty(t, cfg.NatsUrl)
	require.Empty(t, cfg.SqsQueueUrl)
}

func TestReadEnvConfigOverrides(t *testing.T) {
	t.Setenv("RESULTS_DIR", "/var/bench/results")
	t.Setenv("CI_SYSTEM", "github-actions")
	t.Setenv("BENCH_IMAGE_REF", "svc1:latest")
	t.Setenv("BENCH_PATTERNS_FILE", "patterns.toml")
	t.Setenv("BENCH_SAVE_BUILD_LOG", "true")
	t.Setenv("BENCH_NATS_URL", "nats://127.0.0.1:4222")
	t.Setenv("BENCH_NATS_SUBJECT", "bench.dev")
	t.Setenv("BENCH_SQS_QUEUE_URL", "https://sqs.eu-central-1.amazonaws.com/123/results")
	t.Setenv("OUTPUT_CSV", "out.csv")

	cfg := environment.ReadEnvConfig()

	require.Equal(t, "/var/bench/results", cfg.ResultsDir)
	require.Equal(t, "github-actions", cfg.CiSystem)
	require.Equal(t, "svc1:latest", cfg.ImageRef)
	require.Equal(t, "patterns.toml", cfg.PatternsFile)
	require.True(t, cfg.SaveBuildLog)
	require.Equal(t, "nats://127.0.0.1:4222", cfg.NatsUrl)
	require.Equal(t, "bench.dev", cfg.NatsSubject)
	require.Equal(t, "https://sqs.eu-central-1.amazonaws.com/123/results", cfg.SqsQueueUrl)
	require.Equal(t, "out.csv", cfg.OutputCsv)
}

func TestReadEnvConfigIgnoresBadBool(t *testing.T) {
	t.Setenv("BENCH_SAVE_BUILD_LOG", "sometimes")

	cfg := environment.ReadEnvConfig()

	require.False(t, cfg.SaveBuildLog)
}
