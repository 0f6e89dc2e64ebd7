package discover

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"meshscout/serialize/mesh"
	"meshscout/transport"
)

// State tracks a session through its single pass
type State uint8

const (
	Idle State = iota
	Connecting
	Listening
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Listening:
		return "listening"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Dialer establishes the device connection for a session
type Dialer func() (transport.Conn, error)

// Session runs one discovery pass: connect, snapshot the registry,
// arm the correlator, emit a zero-hop broadcast probe, collect replies
// until the window closes. A Session runs one pass per Run call;
// calling Run again repeats the full sequence from Connecting.
type Session struct {
	dial  Dialer
	state State
}

// NewSession builds a session that dials the given device address
func NewSession(address string, ifaceType transport.InterfaceType) *Session {
	return NewSessionWithDialer(func() (transport.Conn, error) {
		return transport.Dial(address, ifaceType)
	})
}

// NewSessionWithDialer builds a session around a custom dialer
func NewSessionWithDialer(dial Dialer) *Session {
	return &Session{
		dial:  dial,
		state: Idle,
	}
}

// State reports the session's current lifecycle state
func (s *Session) State() State {
	return s.state
}

// Run executes one discovery pass and returns the records collected,
// in arrival order. A connection failure is a normal, reportable
// outcome: the error describes it and the result is empty. Cancelling
// ctx truncates the window early and returns whatever was collected;
// handler deregistration and connection close happen on every exit
// path.
func (s *Session) Run(ctx context.Context, window time.Duration) ([]*Record, error) {
	logger := zlog.With().Str("module", "discover").
		Str("session", uuid.NewString()).Logger()

	s.state = Connecting
	conn, err := s.dial()
	if err != nil {
		s.state = Failed
		logger.Error().Err(err).Msg("connect failed")
		return nil, err
	}
	defer conn.Close()

	snapshot := BuildSnapshot(conn.Nodes(), conn.LocalAddr())
	logger.Debug().Int("known_peers", snapshot.Len()).
		Str("local", mesh.NodeID(conn.LocalAddr())).Msg("registry snapshot built")

	corr := newCorrelator(snapshot)

	// armed before the probe goes out: a fast local-loop response
	// must not race past an unarmed handler
	corr.arm()
	conn.SetHandler(corr.onMessage)
	defer func() {
		corr.disarm()
		conn.SetHandler(nil)
	}()

	probe := mesh.NewZeroHopProbe()
	if err := conn.Send(probe); err != nil {
		// transport trouble past the connect step never crashes the
		// session; it completes with whatever was collected
		logger.Error().Err(err).Msg("probe send failed")
		s.state = Completed
		return corr.results(), nil
	}

	s.state = Listening
	logger.Info().Dur("window", window).Msg("probe sent, listening for replies")

	s.wait(ctx, window, logger)

	s.state = Completed
	records := corr.results()
	logger.Info().Int("found", len(records)).Msg("discovery window closed")
	return records, nil
}

// wait blocks until the window elapses or ctx is cancelled; an
// interrupt is a normal early close, not an error
func (s *Session) wait(ctx context.Context, window time.Duration, logger zerolog.Logger) {
	timer := time.NewTimer(window)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		logger.Info().Msg("interrupted, truncating the window")
	case <-timer.C:
	}
}
