package transport

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"meshscout/serialize/mesh"
)

const (
	recvQSize        = 64
	handshakeTimeout = 10 * time.Second
)

// base carries the state every connection variant shares: the decoded
// inbound queue, the handler registration and the node table captured
// during the handshake.
type base struct {
	recvQ chan mesh.Message
	done  chan struct{}
	wg    sync.WaitGroup

	handlerMu sync.RWMutex
	handler   Handler

	localNum uint32
	nodes    []*mesh.NodeInfo
}

func newBase() *base {
	return &base{
		recvQ: make(chan mesh.Message, recvQSize),
		done:  make(chan struct{}),
	}
}

func (b *base) LocalAddr() uint32 {
	return b.localNum
}

func (b *base) Nodes() []*mesh.NodeInfo {
	return b.nodes
}

func (b *base) SetHandler(h Handler) {
	b.handlerMu.Lock()
	b.handler = h
	b.handlerMu.Unlock()
}

func (b *base) getHandler() Handler {
	b.handlerMu.RLock()
	defer b.handlerMu.RUnlock()
	return b.handler
}

// deliver decodes one raw message and queues it. Malformed data is
// dropped, never fatal: heterogeneous firmware versions are expected
// to produce the occasional frame this build cannot read.
func (b *base) deliver(data []byte) {
	msg, err := mesh.Unmarshal(data)
	if err != nil {
		zlog.Warn().Str("module", "transport").Err(err).
			Int("size", len(data)).Msg("drop undecodable message")
		return
	}

	select {
	case b.recvQ <- msg:
	default:
		zlog.Warn().Str("module", "transport").Msg("recvQ is full, drop message")
	}
}

// handshake requests the node table and consumes the inbound queue
// until the stream terminator arrives
func (b *base) handshake(send func(mesh.Message) error) error {
	if err := send(mesh.NewGetNodes()); err != nil {
		return fmt.Errorf("request node table: %w", err)
	}

	deadline := time.After(handshakeTimeout)
	for {
		select {
		case <-deadline:
			return fmt.Errorf("node table handshake timed out after %v", handshakeTimeout)
		case <-b.done:
			return fmt.Errorf("connection closed during handshake")
		case msg := <-b.recvQ:
			switch m := msg.(type) {
			case *mesh.NodeInfo:
				if m.IsLocal {
					b.localNum = m.Num
				}
				b.nodes = append(b.nodes, m)
			case *mesh.NodesEnd:
				b.localNum = m.LocalNum
				zlog.Debug().Str("module", "transport").
					Int("nodes", len(b.nodes)).
					Str("local", mesh.NodeID(b.localNum)).
					Msg("node table handshake complete")
				return nil
			default:
				// unrelated traffic may arrive mid-handshake
			}
		}
	}
}

// dispatchLoop forwards queued messages to the registered handler.
// Callers wg.Add before starting it.
func (b *base) dispatchLoop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return
		case msg := <-b.recvQ:
			if h := b.getHandler(); h != nil {
				h(msg)
			} else {
				zlog.Debug().Str("module", "transport").
					Uint8("type", msg.MsgType()).Msg("no handler, drop message")
			}
		}
	}
}

// streamConn is a Conn over a byte stream (TCP or serial) using the
// frame codec
type streamConn struct {
	*base
	rwc io.ReadWriteCloser
	br  *bufio.Reader

	sendMu    sync.Mutex
	closeOnce sync.Once
}

func newStreamConn(rwc io.ReadWriteCloser) (*streamConn, error) {
	c := &streamConn{
		base: newBase(),
		rwc:  rwc,
		br:   bufio.NewReader(rwc),
	}

	c.wg.Add(1)
	go c.readLoop()

	if err := c.handshake(c.Send); err != nil {
		c.Close()
		return nil, err
	}

	c.wg.Add(1)
	go c.dispatchLoop()
	return c, nil
}

func (c *streamConn) Send(msg mesh.Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return writeFrame(c.rwc, msg.Marshal())
}

func (c *streamConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.rwc.Close()
		c.wg.Wait()
	})
	return nil
}

func (c *streamConn) readLoop() {
	defer c.wg.Done()

	for {
		payload, err := readFrame(c.br)
		if err != nil {
			select {
			case <-c.done:
			default:
				zlog.Warn().Str("module", "transport").Err(err).
					Msg("stream read failed, connection lost")
			}
			return
		}
		c.deliver(payload)
	}
}
