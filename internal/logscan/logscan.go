package logscan

import (
	"math"
	"regexp"
	"strings"
)

// Analysis holds the sanitized cache counters derived from one build log.
// Total is clamped to at least 1 so the ratio stays defined; Hits above
// Total are reported untouched since over-matching patterns are a known
// imprecision of the heuristic.
type Analysis struct {
	Hits  int
	Total int
	Ratio float64
}

// variant is one build-tool family: a hit pattern counting layers served
// from cache and a step pattern counting executed build steps.
type variant struct {
	name   string
	hitRe  *regexp.Regexp
	stepRe *regexp.Regexp
}

// Scanner selects a per-tool pattern pair and counts cache activity in
// captured build output. Unknown tools scan nothing and report 0 of 1.
type Scanner struct {
	byTool map[string]*variant
}

var (
	// BuildKit marks reused layers with "#N CACHED" and steps with
	// "#N [i/j]" (padded and stage-prefixed in multi-stage builds); the
	// classic builder prints "Using cache" and "Step i/j".
	dockerHitRe  = regexp.MustCompile(`(?m)(^#\d+ CACHED\b|Using cache)`)
	dockerStepRe = regexp.MustCompile(`(?m)^(#\d+ \[[^\]]*\d+/\d+\]|Step \d+/\d+)`)

	// Kaniko logs "Using caching version of cmd: ..." per reused layer and
	// echoes the mutating Dockerfile instructions it executes.
	kanikoHitRe  = regexp.MustCompile(`Using caching version`)
	kanikoStepRe = regexp.MustCompile(`\b(RUN|COPY|ADD|FROM)\b`)

	// Buildah numbers steps as "STEP i/j:" and reuses with "Using cache".
	buildahHitRe  = regexp.MustCompile(`Using cache`)
	buildahStepRe = regexp.MustCompile(`(?m)^STEP \d+/\d+`)
)

// NewScanner returns a scanner preloaded with the docker, kaniko and
// buildah pattern families.
func NewScanner() *Scanner {
	s := &Scanner{byTool: make(map[string]*variant)}
	s.register(&variant{name: "docker", hitRe: dockerHitRe, stepRe: dockerStepRe},
		"docker", "buildkit", "buildx")
	s.register(&variant{name: "kaniko", hitRe: kanikoHitRe, stepRe: kanikoStepRe},
		"kaniko")
	s.register(&variant{name: "buildah", hitRe: buildahHitRe, stepRe: buildahStepRe},
		"buildah", "podman")
	return s
}

func (s *Scanner) register(v *variant, aliases ...string) {
	for _, alias := range aliases {
		s.byTool[strings.ToLower(alias)] = v
	}
}

// Scan counts cache hits and build steps in logText using the pattern pair
// registered for tool. The tool lookup is case insensitive.
func (s *Scanner) Scan(tool string, logText []byte) Analysis {
	v, ok := s.byTool[strings.ToLower(tool)]
	if !ok {
		return Analysis{Hits: 0, Total: 1, Ratio: 0}
	}

	hits := len(v.hitRe.FindAllIndex(logText, -1))
	total := len(v.stepRe.FindAllIndex(logText, -1))
	if total < 1 {
		total = 1
	}

	ratio := math.Round(float64(hits)/float64(total)*10000) / 10000
	return Analysis{Hits: hits, Total: total, Ratio: ratio}
}

// Known reports whether a pattern pair is registered for tool.
func (s *Scanner) Known(tool string) bool {
	_, ok := s.byTool[strings.ToLower(tool)]
	return ok
}
