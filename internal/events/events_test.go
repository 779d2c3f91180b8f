package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/streadway/amqp"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSPublisherSendsJSONBody(t *testing.T) {
	fake := &fakeSQS{}
	p := &SQSPublisher{client: fake, queueURL: "https://sqs.local/queue"}
	ev := Event{Type: TypeAnalysisCompleted, AnalysisID: "a-1", OwnerID: "u-1", FileName: "cv.pdf", Score: 77}

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := *fake.input.QueueUrl; got != "https://sqs.local/queue" {
		t.Fatalf("queue url = %q", got)
	}
	var decoded Event
	if err := json.Unmarshal([]byte(*fake.input.MessageBody), &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.AnalysisID != "a-1" || decoded.Score != 77 {
		t.Fatalf("unexpected body %+v", decoded)
	}
	if decoded.OccurredAt.IsZero() {
		t.Fatal("expected occurredAt to be filled")
	}
	if got := *fake.input.MessageAttributes["type"].StringValue; got != TypeAnalysisCompleted {
		t.Fatalf("type attribute = %q", got)
	}
}

func TestSQSPublisherWrapsErrors(t *testing.T) {
	sendErr := errors.New("throttled")
	p := &SQSPublisher{client: &fakeSQS{err: sendErr}, queueURL: "q"}
	if err := p.Publish(context.Background(), Event{Type: TypeAnalysisCompleted}); !errors.Is(err, sendErr) {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisherRoutesByType(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "resume.analyses"}
	ev := Event{Type: TypeAnalysisCompleted, AnalysisID: "a-2", OccurredAt: time.Unix(0, 0).UTC()}

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if ch.exchange != "resume.analyses" || ch.key != TypeAnalysisCompleted {
		t.Fatalf("published to %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.ContentType != "application/json" || ch.msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected publishing %+v", ch.msg)
	}
}

func TestAMQPPublisherHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &AMQPPublisher{ch: &fakeChannel{}, exchange: "x"}
	if err := p.Publish(ctx, Event{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	if _, err := NewAMQPPublisher("", "x"); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewSQSPublisher(context.Background(), "us-east-1", ""); err == nil {
		t.Fatal("expected error for empty queue url")
	}
}
