// Package admin creates the topics the service reads and writes.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicResult reports what happened to one topic.
type TopicResult struct {
	Topic   string
	Created bool
}

// EnsureTopics creates topics that do not exist yet. Existing topics are left as-is.
func EnsureTopics(ctx context.Context, brokers []string, partitions int32, replication int16, topics ...string) ([]TopicResult, error) {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	defer client.Close()

	resps, err := kadm.NewClient(client).CreateTopics(ctx, partitions, replication, nil, topics...)
	if err != nil {
		return nil, fmt.Errorf("create topics: %w", err)
	}

	results := make([]TopicResult, 0, len(topics))
	for _, resp := range resps.Sorted() {
		switch {
		case resp.Err == nil:
			results = append(results, TopicResult{Topic: resp.Topic, Created: true})
		case errors.Is(resp.Err, kerr.TopicAlreadyExists):
			results = append(results, TopicResult{Topic: resp.Topic})
		default:
			return results, fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
		}
	}
	return results, nil
}
