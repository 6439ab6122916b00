package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"roomrates/internal/domain/syncstate"
)

func TestPublishRatesKeysByProduct(t *testing.T) {
	t.Parallel()

	var sent []*sarama.ProducerMessage
	mock := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		sent = append(sent, msg)
		return nil
	})
	p := &RatePublisher{Producer: NewProducerFrom(mock), TopicPrefix: "stage."}

	err := p.PublishRates(context.Background(), "h1", []syncstate.Rate{{
		HotelID:           "h1",
		RoomProductID:     "std",
		RatePlanID:        "bar",
		Date:              "2025-09-01",
		AccommodationRate: decimal.RequireFromString("110.50"),
		NetPrice:          decimal.RequireFromString("100.45"),
		GrossPrice:        decimal.RequireFromString("110.50"),
		TotalTaxAmount:    decimal.RequireFromString("10.05"),
	}})
	require.NoError(t, err)
	require.NoError(t, mock.Close())

	require.Len(t, sent, 1)
	require.Equal(t, "stage."+RatesTopic, sent[0].Topic)
	key, err := sent[0].Key.Encode()
	require.NoError(t, err)
	require.Equal(t, "h1:std", string(key))

	value, err := sent[0].Value.Encode()
	require.NoError(t, err)
	var body rateMessage
	require.NoError(t, json.Unmarshal(value, &body))
	require.Equal(t, "110.5", body.AccommodationRate)
	require.Equal(t, "bar", body.RatePlanID)
}

func TestPublishAvailabilityReportsFailure(t *testing.T) {
	t.Parallel()

	mock := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	mock.ExpectSendMessageAndFail(sarama.ErrNotEnoughReplicas)
	p := &RatePublisher{Producer: NewProducerFrom(mock)}

	err := p.PublishAvailability(context.Background(), "h1", []syncstate.Availability{{
		HotelID: "h1", RoomProductID: "std", Date: "2025-09-01", Available: 2, Open: true,
	}})
	require.Error(t, err)
	require.NoError(t, mock.Close())
}

func TestPublishEmptyBatchSendsNothing(t *testing.T) {
	t.Parallel()

	mock := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	p := &RatePublisher{Producer: NewProducerFrom(mock)}
	require.NoError(t, p.PublishRates(context.Background(), "h1", nil))
	require.NoError(t, mock.Close())
}

type stubHandler struct{ err error }

func (s stubHandler) HandleEvent(context.Context, []byte) error { return s.err }

func TestGroupHandlerMarksOnlyHandledMessages(t *testing.T) {
	t.Parallel()

	msg := &sarama.ConsumerMessage{Topic: TriggerTopic, Value: []byte(`{}`)}
	require.True(t, groupHandler{handler: stubHandler{}}.handle(context.Background(), msg))
	require.False(t, groupHandler{handler: stubHandler{err: errors.New("mongo down")}}.handle(context.Background(), msg))
}

// flakyHandler fails the first failures calls.
type flakyHandler struct {
	mu       sync.Mutex
	failures int
	calls    []string
}

func (f *flakyHandler) HandleEvent(_ context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, string(payload))
	if f.failures > 0 {
		f.failures--
		return errors.New("dispatch failed")
	}
	return nil
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func claimOf(msgs ...*sarama.ConsumerMessage) fakeClaim {
	ch := make(chan *sarama.ConsumerMessage, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	close(ch)
	return fakeClaim{messages: ch}
}

func TestConsumeClaimRetriesFailedMessageBeforeMovingOn(t *testing.T) {
	t.Parallel()

	handler := &flakyHandler{failures: 2}
	sess := &fakeSession{ctx: context.Background()}
	claim := claimOf(
		&sarama.ConsumerMessage{Topic: TriggerTopic, Offset: 7, Value: []byte("first")},
		&sarama.ConsumerMessage{Topic: TriggerTopic, Offset: 8, Value: []byte("second")},
	)

	err := groupHandler{handler: handler, backoff: time.Millisecond}.ConsumeClaim(sess, claim)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "first", "first", "second"}, handler.calls)
	require.Equal(t, []int64{7, 8}, sess.marked)
}

func TestConsumeClaimStopsWithoutMarkingWhenSessionEnds(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess := &fakeSession{ctx: ctx}
	claim := claimOf(
		&sarama.ConsumerMessage{Topic: TriggerTopic, Offset: 3, Value: []byte("stuck")},
		&sarama.ConsumerMessage{Topic: TriggerTopic, Offset: 4, Value: []byte("later")},
	)

	handler := stubHandler{err: errors.New("mongo down")}
	require.NoError(t, groupHandler{handler: handler, backoff: time.Hour}.ConsumeClaim(sess, claim))
	require.Empty(t, sess.marked)
}
