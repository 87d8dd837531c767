package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/datasync/keymarker/internal/chord"
	"github.com/datasync/keymarker/internal/config"
	"github.com/datasync/keymarker/internal/disambiguator"
	"github.com/datasync/keymarker/internal/emitter"
	"github.com/datasync/keymarker/internal/flags"
	"github.com/datasync/keymarker/internal/infrastructure/sqlite"
	"github.com/datasync/keymarker/internal/labels"
	"github.com/datasync/keymarker/internal/log"
	"github.com/datasync/keymarker/internal/pubsub"
	"github.com/datasync/keymarker/internal/sessions"
	"github.com/datasync/keymarker/internal/sessions/domain"
	"github.com/datasync/keymarker/internal/tracing"
)

// session holds everything one disambiguator run emits into.
type session struct {
	table   *chord.Table
	notices *pubsub.Broker[disambiguator.Notice]
	feed    *pubsub.Broker[emitter.Marker]
	emitter emitter.Emitter
	labels  *labels.Store
	flags   *flags.Registry

	db       *sqlite.DB
	recorder *sessions.Recorder
	provider *tracing.Provider
	traced   *tracing.Traced
}

// openSession builds the chord table and the emitter chain: console feed,
// recorder, then tracing and debug logging around both.
func openSession(ctx context.Context, c config.Config) (*session, error) {
	table, err := c.Table()
	if err != nil {
		return nil, fmt.Errorf("invalid bindings: %w", err)
	}

	s := &session{
		table:   table,
		notices: pubsub.NewBroker[disambiguator.Notice](),
		feed:    pubsub.NewBroker[emitter.Marker](),
		labels:  labels.NewStore(c.Labels.TTL, c.Labels.Max),
		flags:   flags.New(c.Flags),
	}

	sinks := emitter.Multi{emitter.NewFeed(s.feed)}

	host, _ := os.Hostname()
	guid := ""
	if c.Recorder.Enabled {
		s.db, err = sqlite.NewDB(c.RecorderPath())
		if err != nil {
			return nil, fmt.Errorf("opening marker database: %w", err)
		}
		s.recorder, err = sessions.StartRecorder(ctx, s.db.SessionRepository(), s.db.MarkerRepository(), host)
		if err != nil {
			_ = s.db.Close()
			return nil, err
		}
		guid = s.recorder.Session().GUID()
		sinks = append(sinks, s.recorder)
	}

	s.provider, err = tracing.NewProvider(c.TracingConfig())
	if err != nil {
		_ = s.closeStores(ctx, domain.SessionStateFailed)
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	var em emitter.Emitter = sinks
	if s.provider.Enabled() {
		s.traced = tracing.StartSession(ctx, s.provider.Tracer(), em, guid, host)
		em = s.traced
	}
	s.emitter = emitter.WithLogging(em)
	return s, nil
}

// close ends the recorded session as ended, or failed when runErr is set,
// and flushes spans.
func (s *session) close(ctx context.Context, runErr error) error {
	state := domain.SessionStateEnded
	if runErr != nil {
		state = domain.SessionStateFailed
	}
	s.notices.Close()
	s.feed.Close()

	if s.traced != nil {
		s.traced.End()
	}
	var firstErr error
	if err := s.provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		firstErr = err
	}
	if err := s.closeStores(ctx, state); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (s *session) closeStores(ctx context.Context, state domain.SessionState) error {
	var firstErr error
	if s.recorder != nil {
		if err := s.recorder.Close(ctx, state); err != nil {
			log.ErrorErr(log.CatDB, "Closing recorder failed", err)
			firstErr = err
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
