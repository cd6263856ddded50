package sink

import (
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/push"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/dd0wney/cluso-deepwalk/pkg/corpus"
)

// DefaultSendTimeout bounds how long a PUSH send waits for a puller
const DefaultSendTimeout = 30 * time.Second

type pushSink struct {
	sock   mangos.Socket
	closed bool
}

// NewPushSink dials addr with a PUSH socket and sends one message per
// walk, encoded as a single space-separated line. The dial is asynchronous
// so the puller may come up later; sends block up to timeout for it.
func NewPushSink(addr string, timeout time.Duration) (Sink, error) {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}

	sock, err := push.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create push socket: %w", err)
	}
	if err := sock.SetOption(mangos.OptionSendDeadline, timeout); err != nil {
		sock.Close()
		return nil, err
	}
	if err := sock.SetOption(mangos.OptionDialAsynch, true); err != nil {
		sock.Close()
		return nil, err
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return &pushSink{sock: sock}, nil
}

func (s *pushSink) Write(walk []uint64) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.sock.Send(corpus.AppendWalk(nil, walk)); err != nil {
		return fmt.Errorf("failed to push walk: %w", err)
	}
	return nil
}

func (s *pushSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.sock.Close()
}
