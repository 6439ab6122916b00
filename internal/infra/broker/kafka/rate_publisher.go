package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"roomrates/internal/app/policies"
	"roomrates/internal/domain/syncstate"
)

const (
	RatesTopic        = "pricing.rates.v1"
	AvailabilityTopic = "pricing.availability.v1"
)

// RatePublisher pushes rate and availability entities, keyed hotel:product so
// one product's updates stay ordered on a partition.
type RatePublisher struct {
	Producer    *Producer
	TopicPrefix string
}

var _ policies.RatePublisher = (*RatePublisher)(nil)

func (p *RatePublisher) PublishRates(ctx context.Context, hotelID string, rates []syncstate.Rate) error {
	msgs := make([]*sarama.ProducerMessage, 0, len(rates))
	for _, r := range rates {
		msg, err := p.message(RatesTopic, "rate", hotelID, string(r.RoomProductID), rateMessage{
			HotelID:           r.HotelID,
			RoomProductID:     string(r.RoomProductID),
			RatePlanID:        r.RatePlanID,
			Date:              r.Date,
			AccommodationRate: r.AccommodationRate.String(),
			NetPrice:          r.NetPrice.String(),
			GrossPrice:        r.GrossPrice.String(),
			TotalTaxAmount:    r.TotalTaxAmount.String(),
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.send(ctx, msgs)
}

func (p *RatePublisher) PublishAvailability(ctx context.Context, hotelID string, items []syncstate.Availability) error {
	msgs := make([]*sarama.ProducerMessage, 0, len(items))
	for _, a := range items {
		msg, err := p.message(AvailabilityTopic, "avail", hotelID, string(a.RoomProductID), availabilityMessage{
			HotelID:       a.HotelID,
			RoomProductID: string(a.RoomProductID),
			Date:          a.Date,
			Available:     a.Available,
			Open:          a.Open,
		})
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.send(ctx, msgs)
}

func (p *RatePublisher) send(ctx context.Context, msgs []*sarama.ProducerMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Producer.SendAll(msgs); err != nil {
		return fmt.Errorf("kafka: publish %d messages: %w", len(msgs), err)
	}
	return nil
}

func (p *RatePublisher) message(topic, kind, hotelID, productID string, body any) (*sarama.ProducerMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("kafka: encode %s: %w", kind, err)
	}
	return &sarama.ProducerMessage{
		Topic: p.TopicPrefix + topic,
		Key:   sarama.StringEncoder(hotelID + ":" + productID),
		Value: sarama.ByteEncoder(payload),
		Headers: headers(map[string]string{
			"message_id": uuid.NewString(),
			"kind":       kind,
			"hotel_id":   hotelID,
		}),
	}, nil
}

// Amounts travel as decimal strings.
type rateMessage struct {
	HotelID           string `json:"hotel_id"`
	RoomProductID     string `json:"room_product_id"`
	RatePlanID        string `json:"rate_plan_id"`
	Date              string `json:"date"`
	AccommodationRate string `json:"accommodation_rate"`
	NetPrice          string `json:"net_price"`
	GrossPrice        string `json:"gross_price"`
	TotalTaxAmount    string `json:"total_tax_amount"`
}

type availabilityMessage struct {
	HotelID       string `json:"hotel_id"`
	RoomProductID string `json:"room_product_id"`
	Date          string `json:"date"`
	Available     int    `json:"available"`
	Open          bool   `json:"open"`
}
