package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

const tracerName = "github.com/srgjo27/hotel_booking/internal/core/services"

const defaultRequestTimeout = 5 * time.Second

// Deps are shared by every service. A nil TracerProvider uses the global one.
type Deps struct {
	Tx             ports.TxManager
	L              ports.Logger
	RequestTimeout time.Duration
	Now            func() time.Time
	TracerProvider trace.TracerProvider
}

type runner struct {
	tx      ports.TxManager
	l       ports.Logger
	timeout time.Duration
	now     func() time.Time
	tracer  trace.Tracer
}

func newRunner(d Deps) runner {
	tp := d.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	r := runner{tx: d.Tx, l: d.L, timeout: d.RequestTimeout, now: d.Now, tracer: tp.Tracer(tracerName)}

	if r.timeout <= 0 {
		r.timeout = defaultRequestTimeout
	}

	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC() }
	}

	return r
}

// run executes fn as one transaction under the request deadline. A deadline
// hit anywhere surfaces as a Timeout after the store has rolled back.
func (r runner) run(ctx context.Context, op string, fn ports.TxFunc, attrs ...attribute.KeyValue) error {
	ctx, span := r.tracer.Start(ctx, op)
	defer span.End()

	span.SetAttributes(attrs...)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.tx.WithinTx(ctx, fn)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) && !domain.IsKind(err, domain.KindTimeout) {
		err = domain.NewTimeout(err)
	}

	kind := domain.KindOf(err)

	span.RecordError(err)
	span.SetAttributes(attribute.String("error.kind", string(kind)))
	span.SetStatus(codes.Error, string(kind))

	if kind == domain.KindInternal {
		r.l.Error("operation failed", "op", op, "error", err.Error())
	}

	return err
}

func idAttr(key string, id int64) attribute.KeyValue {
	return attribute.Int64(key, id)
}
