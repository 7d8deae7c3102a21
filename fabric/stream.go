/*
=================================================================================
STREAM BUS - TRANSPORT-AGNOSTIC REMOTE FABRIC
=================================================================================

§4.3 calls for a second, ZMQ-backed fabric implementation with semantics
identical to the in-process bus, for carrying messages between processes. No
ZMQ client binding appears anywhere in the retrieved corpus (teacher or
pack), and this project does not fabricate dependencies behind a replace
directive (see DESIGN.md). StreamBus instead implements the same Bus
interface over any io.ReadWriter — a TCP connection, a pipe, or a real ZMQ
socket's Go wrapper, if one is later vendored — serializing every routed
message through the binary envelope from package message. Subscription
bookkeeping and delivery semantics are delegated entirely to an embedded
InProcessBus; StreamBus only adds the wire encode/decode step a remote
transport requires.
=================================================================================
*/

package fabric

import (
	"bufio"
	"encoding/binary"
	"io"
	"sync"

	"github.com/SynapticNetworks/stepnet/message"
)

// StreamBus routes messages locally exactly like InProcessBus, and
// additionally mirrors every sent message out over an io.Writer as a
// length-prefixed envelope frame, and ingests frames read from an
// io.Reader as if they had been sent locally. This is the seam a real
// broker transport (ZMQ, a message queue, a raw socket) would sit behind.
type StreamBus struct {
	*InProcessBus

	mu sync.Mutex
	w  io.Writer
}

// NewStreamBus returns a StreamBus that mirrors outbound traffic to w (may
// be nil, meaning nothing is published) and reads inbound frames from r
// in a background goroutine (may be nil, meaning no remote ingestion).
func NewStreamBus(w io.Writer, r io.Reader) *StreamBus {
	sb := &StreamBus{InProcessBus: NewInProcessBus(), w: w}
	if r != nil {
		go sb.ingest(r)
	}
	return sb
}

// SendSpike enqueues msg locally and mirrors it out over the wire.
func (sb *StreamBus) SendSpike(msg message.SpikeMessage) {
	sb.InProcessBus.SendSpike(msg)
	sb.publish(message.Envelope{Kind: message.TypeSpike, Spike: &msg})
}

// SendImpact enqueues msg locally and mirrors it out over the wire.
func (sb *StreamBus) SendImpact(msg message.SynapticImpactMessage) {
	sb.InProcessBus.SendImpact(msg)
	sb.publish(message.Envelope{Kind: message.TypeSynapticImpact, Impact: &msg})
}

func (sb *StreamBus) publish(env message.Envelope) {
	if sb.w == nil {
		return
	}
	raw, err := env.Encode()
	if err != nil {
		return
	}
	sb.mu.Lock()
	defer sb.mu.Unlock()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(raw)))
	if _, err := sb.w.Write(lenBuf[:]); err != nil {
		return
	}
	_, _ = sb.w.Write(raw)
}

// ingest reads length-prefixed envelope frames from r until it errs or EOF,
// enqueuing each decoded message into the local bus as if SendSpike or
// SendImpact had been called directly.
func (sb *StreamBus) ingest(r io.Reader) {
	br := bufio.NewReader(r)
	for {
		var lenBuf [4]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return
		}
		n := binary.LittleEndian.Uint32(lenBuf[:])
		raw := make([]byte, n)
		if _, err := io.ReadFull(br, raw); err != nil {
			return
		}
		env, err := message.Decode(raw)
		if err != nil {
			continue
		}
		switch env.Kind {
		case message.TypeSpike:
			sb.InProcessBus.SendSpike(*env.Spike)
		case message.TypeSynapticImpact:
			sb.InProcessBus.SendImpact(*env.Impact)
		}
	}
}

var _ Bus = (*StreamBus)(nil)
