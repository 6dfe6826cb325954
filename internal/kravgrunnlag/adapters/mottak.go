// Package adapters connects the claim service to the Kafka consumer.
package adapters

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"supstonad/internal/kravgrunnlag/service"
	"supstonad/internal/platform/kafka/consumer"
	"supstonad/pkg/requestcontext"
)

// Mottaker is the ingestion side of the claim service.
type Mottaker interface {
	Motta(ctx context.Context, meldingID, melding string, mottatt time.Time) error
}

// MottakHandler stores every record from the claim topic as a raw claim.
type MottakHandler struct {
	mottaker Mottaker
	logger   *slog.Logger
}

func NewMottakHandler(mottaker Mottaker, logger *slog.Logger) *MottakHandler {
	return &MottakHandler{mottaker: mottaker, logger: logger}
}

// Handle implements consumer.Handler. Empty records are dropped; any other
// failure is returned so the record is redelivered.
func (h *MottakHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	meldingID := msg.MeldingID()
	ctx = requestcontext.WithCorrelationID(ctx, meldingID)
	mottatt := msg.Timestamp
	if mottatt.IsZero() {
		mottatt = requestcontext.Now(ctx)
	}

	err := h.mottaker.Motta(ctx, meldingID, string(msg.Value), mottatt)
	if errors.Is(err, service.ErrTomMelding) {
		h.logger.WarnContext(ctx, "dropping empty kravgrunnlag record",
			"melding_id", meldingID,
		)
		return nil
	}
	return err
}
