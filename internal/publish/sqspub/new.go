package sqspub

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// NewSqsResultQueueGatherer creates an SQS gatherer that publishes run
// progress to the given queue. The AWS region and credentials come from the
// default SDK config chain.
func NewSqsResultQueueGatherer(ctx context.Context, runUuid string, queueUrl string) (*sqsResultQueueGatherer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &sqsResultQueueGatherer{
		sqsClient: sqs.NewFromConfig(cfg),
		queueUrl:  queueUrl,
		runUuid:   runUuid,
	}, nil
}
