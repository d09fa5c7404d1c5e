package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	eventsPort "reelprofile/internal/ports/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName     = "RELATIONSHIP"
	SubjectPattern = "relationship.>"
)

// Subject موضوع NATS برای هر نوع رویداد: relationship.followed / relationship.unfollowed
func Subject(action eventsPort.FollowAction) string {
	return "relationship." + string(action)
}

type NatsBroker struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewNatsBroker اتصال را برقرار می‌کند و stream را (idempotent) می‌سازد
func NewNatsBroker(url string) (*NatsBroker, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage,
		Replicas: 1,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsBroker{nc: nc, js: js}, nil
}

func (n *NatsBroker) PublishFollowChanged(ctx context.Context, event eventsPort.FollowChanged) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := n.js.Publish(ctx, Subject(event.Action), data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

func (n *NatsBroker) Close() {
	if n.nc != nil {
		n.nc.Close()
	}
}

// NoopPublisher وقتی NATS تنظیم نشده باشد
type NoopPublisher struct{}

func (NoopPublisher) PublishFollowChanged(ctx context.Context, event eventsPort.FollowChanged) error {
	return nil
}
