package consumer

import (
	"context"
	"fmt"

	"airpark/config"
	"airpark/infras/kafka"
	"airpark/infras/otel"
	"airpark/internal/domains/booking/model"
	"airpark/internal/domains/booking/model/dto"
	bookingService "airpark/internal/domains/booking/service"
	"airpark/shared/constant"
	"airpark/shared/failure"
	"airpark/shared/validator"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer turns completed payments into bookings.
type Consumer struct {
	kafka   kafka.Client
	booking bookingService.Booking
	cfg     *config.Config
	otel    otel.Otel
}

func New(kafka kafka.Client, booking bookingService.Booking, cfg *config.Config, otel otel.Otel) *Consumer {
	return &Consumer{
		kafka:   kafka,
		booking: booking,
		cfg:     cfg,
		otel:    otel,
	}
}

// Run consumes the payment topic until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if len(c.cfg.Kafka.Brokers) == 0 {
		log.Warn().Msg("no Kafka brokers configured, payment consumer disabled")

		<-ctx.Done()

		return nil
	}

	if err := c.kafka.Consume(ctx, c.cfg.Kafka.Topics.PaymentCompleted, c.HandlePaymentCompleted); err != nil {
		return fmt.Errorf("payment consumer stopped: %w", err)
	}

	return nil
}

// HandlePaymentCompleted creates the booking paid for by msg. Only store
// failures are returned; a malformed payment is logged and skipped so it does
// not block the partition. A refused payment is stored as an api_error booking
// so the captured payment can be reconciled.
func (c *Consumer) HandlePaymentCompleted(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PaymentCompleted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"messaging.topic":  msg.Topic,
		"messaging.offset": msg.Offset,
	})

	event, err := kafka.Decode[dto.PaymentCompletedEvent](msg)
	if err != nil {
		log.Error().Err(err).Int64("offset", msg.Offset).Msg("skipping undecodable payment event")

		return nil
	}

	req := event.ToCreateRequest()

	if err = validator.ValidateStruct(&req); err != nil {
		log.Error().Err(err).Str("paymentReference", event.PaymentReference).Msg("skipping invalid payment event")

		return nil
	}

	ctx = context.WithValue(ctx, constant.ContextKeyUserID, constant.ContextSystem)

	booking, created, err := c.booking.Create(ctx, req)
	if err != nil {
		if !failure.IsClientError(err) {
			return fmt.Errorf("failed to create booking for payment %s: %w", event.PaymentReference, err)
		}

		log.Warn().
			Err(err).
			Int("code", failure.GetCode(err)).
			Str("paymentReference", event.PaymentReference).
			Str("licensePlate", req.LicensePlate).
			Msg("paid booking refused, recording it for reconciliation")

		return c.recordRefused(ctx, req)
	}

	log.Info().
		Str("id", booking.ID).
		Bool("created", created).
		Str("paymentReference", event.PaymentReference).
		Msg("payment event processed")

	return nil
}

func (c *Consumer) recordRefused(ctx context.Context, req dto.CreateBookingRequest) error {
	req.Status = model.StatusAPIError

	record, _, err := c.booking.Create(ctx, req)
	if err != nil {
		if failure.IsClientError(err) {
			log.Error().Err(err).Str("paymentReference", req.PaymentReference).Msg("refused payment could not be recorded")

			return nil
		}

		return fmt.Errorf("failed to record refused payment %s: %w", req.PaymentReference, err)
	}

	log.Info().
		Str("id", record.ID).
		Str("status", record.Status).
		Str("paymentReference", req.PaymentReference).
		Msg("refused payment recorded")

	return nil
}
