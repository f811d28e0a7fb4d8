package environment

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvConfig carries every environment-derived setting of the harness. It is
// built once at startup and handed to the components that need it; nothing
// reads the process environment after this point.
type EnvConfig struct {
	ResultsDir   string
	CiSystem     string
	ImageRef     string
	PatternsFile string
	SaveBuildLog bool
	NatsUrl      string
	NatsSubject  string
	SqsQueueUrl  string
	OutputCsv    string
}

const (
	DefaultResultsDir  = "./results"
	DefaultCiSystem    = "local"
	DefaultImageRef    = "benchmark-image:latest"
	DefaultNatsSubject = "benchmark.results"
)

// ReadEnvConfig resolves the configuration from a .env file (if present)
// and the process environment. A missing .env is not an error.
func ReadEnvConfig() *EnvConfig {
	_ = godotenv.Load()

	result := &EnvConfig{
		ResultsDir:   getenvDefault("RESULTS_DIR", DefaultResultsDir),
		CiSystem:     getenvDefault("CI_SYSTEM", DefaultCiSystem),
		ImageRef:     getenvDefault("BENCH_IMAGE_REF", DefaultImageRef),
		PatternsFile: os.Getenv("BENCH_PATTERNS_FILE"),
		NatsUrl:      os.Getenv("BENCH_NATS_URL"),
		NatsSubject:  getenvDefault("BENCH_NATS_SUBJECT", DefaultNatsSubject),
		SqsQueueUrl:  os.Getenv("BENCH_SQS_QUEUE_URL"),
		OutputCsv:    os.Getenv("OUTPUT_CSV"),
	}

	if v, err := strconv.ParseBool(os.Getenv("BENCH_SAVE_BUILD_LOG")); err == nil {
		result.SaveBuildLog = v
	}

	return result
}

func getenvDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
