package broker

import (
	"context"
	"encoding/json"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	closed bool
	sent   []amqp.Publishing
	keys   []string
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, exchange+"/"+key)
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeChannel) IsClosed() bool { return f.closed }

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisherPublishJSON(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{ch: ch}

	if err := p.PublishJSON(context.Background(), "booking.confirmed", map[string]string{"bookingId": "b-1"}); err != nil {
		t.Fatalf("PublishJSON: %v", err)
	}
	if len(ch.sent) != 1 || ch.keys[0] != "booking_topic/booking.confirmed" {
		t.Fatalf("unexpected publish %v", ch.keys)
	}
	msg := ch.sent[0]
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected message properties %+v", msg)
	}
	var body map[string]string
	if err := json.Unmarshal(msg.Body, &body); err != nil || body["bookingId"] != "b-1" {
		t.Fatalf("unexpected body %s", msg.Body)
	}
}

func TestPublisherClosedChannel(t *testing.T) {
	p := &Publisher{ch: &fakeChannel{closed: true}}
	if err := p.PublishJSON(context.Background(), "booking.cancelled", struct{}{}); err == nil {
		t.Fatalf("expected error on closed channel")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
