// Package worker runs the claim linker on a fixed interval.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"supstonad/internal/kravgrunnlag/service"
)

// Knytter links raw claims to saker.
type Knytter interface {
	KnyttTilSak(ctx context.Context) (service.KnyttResultat, error)
}

// Linker calls Knytter every interval until the context ends. A failed pass is
// logged and retried on the next tick.
type Linker struct {
	knytter  Knytter
	interval time.Duration
	logger   *slog.Logger
}

func NewLinker(knytter Knytter, interval time.Duration, logger *slog.Logger) *Linker {
	return &Linker{knytter: knytter, interval: interval, logger: logger}
}

func (l *Linker) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := l.KjoerEnGang(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			l.logger.WarnContext(ctx, "kravgrunnlag linker pass failed", "error", err)
		}
	}
}

// KjoerEnGang runs a single pass.
func (l *Linker) KjoerEnGang(ctx context.Context) error {
	res, err := l.knytter.KnyttTilSak(ctx)
	if err != nil {
		return err
	}
	if res.Knyttet+res.Duplikat+res.Utsatt > 0 {
		l.logger.InfoContext(ctx, "kravgrunnlag linker pass done",
			"knyttet", res.Knyttet,
			"duplikat", res.Duplikat,
			"utsatt", res.Utsatt,
		)
	}
	return nil
}
