package natspub

import (
	"github.com/nats-io/nats.go"
	"github.com/skskillls/thesis-benchmark/internal/publish"
	"github.com/skskillls/thesis-benchmark/internal/results"
)

type natsGatherer struct {
	nc      *nats.Conn
	subject string
	runUuid string
}

// StartRun implements publish.Gatherer.
func (s *natsGatherer) StartRun(id results.Identity) {
	s.send(publish.NewStartedRun(s.runUuid, id))
}

// FinishRun implements publish.Gatherer.
func (s *natsGatherer) FinishRun(rec *results.Record) {
	s.send(publish.NewFinishedRun(s.runUuid, rec))
}
