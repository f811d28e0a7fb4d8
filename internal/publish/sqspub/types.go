package sqspub

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/skskillls/thesis-benchmark/internal/publish"
	"github.com/skskillls/thesis-benchmark/internal/results"
)

type sqsResultQueueGatherer struct {
	sqsClient *sqs.Client
	queueUrl  string
	runUuid   string
}

// StartRun implements publish.Gatherer.
func (s *sqsResultQueueGatherer) StartRun(id results.Identity) {
	s.send(publish.NewStartedRun(s.runUuid, id))
}

// FinishRun implements publish.Gatherer.
func (s *sqsResultQueueGatherer) FinishRun(rec *results.Record) {
	s.send(publish.NewFinishedRun(s.runUuid, rec))
}
