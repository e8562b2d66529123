// Package loader performs the viewer's one-shot manifest load.
package loader

import (
	"context"
	"sync"
	"time"

	"tableview/internal/metrics"
	"tableview/internal/models"

	"go.uber.org/zap"
)

// Sink receives the outcome of the load.
type Sink interface {
	Complete(m models.Manifest)
	Fail()
}

// Loader reads its source exactly once per lifetime. Failures are logged and
// leave the sink empty; there is no retry.
type Loader struct {
	src    Source
	sink   Sink
	logger *zap.Logger
	once   sync.Once
	done   chan struct{}
}

func New(src Source, sink Sink, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{src: src, sink: sink, logger: logger, done: make(chan struct{})}
}

// Start runs the load in the background. Nothing waits on or cancels it.
func (l *Loader) Start(ctx context.Context) {
	go l.Run(ctx)
}

func (l *Loader) Run(ctx context.Context) {
	l.once.Do(func() {
		defer close(l.done)
		l.load(ctx)
	})
}

// Done is closed once the load has completed or failed.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

func (l *Loader) load(ctx context.Context) {
	started := time.Now()
	m, err := l.src.Fetch(ctx)
	if err != nil {
		metrics.RecordLoad("failed", 0, time.Since(started))
		l.logger.Error("error loading manifest", zap.String("source", l.src.Name()), zap.Error(err))
		l.sink.Fail()
		return
	}
	metrics.RecordLoad("ok", m.Len(), time.Since(started))
	first, _ := m.First()
	l.logger.Info("loaded manifest",
		zap.String("source", l.src.Name()),
		zap.Int("documents", m.Len()),
		zap.String("default_document", first),
		zap.Duration("elapsed", time.Since(started)),
	)
	l.sink.Complete(m)
}
