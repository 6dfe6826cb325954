package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supstonad/internal/kravgrunnlag/service"
)

type tellendeKnytter struct {
	kall atomic.Int32
	err  error
}

func (k *tellendeKnytter) KnyttTilSak(context.Context) (service.KnyttResultat, error) {
	k.kall.Add(1)
	return service.KnyttResultat{Knyttet: 1}, k.err
}

func TestLinkerRunsUntilCancelled(t *testing.T) {
	knytter := &tellendeKnytter{err: errors.New("db down")}
	linker := NewLinker(knytter, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- linker.Run(ctx) }()

	require.Eventually(t, func() bool { return knytter.kall.Load() >= 3 }, time.Second, time.Millisecond,
		"failed passes must not stop the linker")
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("linker did not stop")
	}
}

func TestKjoerEnGang(t *testing.T) {
	knytter := &tellendeKnytter{}
	linker := NewLinker(knytter, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, linker.KjoerEnGang(context.Background()))
	assert.EqualValues(t, 1, knytter.kall.Load())
}
