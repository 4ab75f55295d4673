// File: pool/packetpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concrete pooled packet type. The scheduling core only sees api.Packet;
// BytePacket is the default payload carrier used by examples and tests,
// recycled through a SyncPool so the deferred-free path in the
// dispatcher stays allocation-free.

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-txq/api"
)

// PacketPool recycles BytePackets of a fixed payload capacity.
type PacketPool struct {
	inner *SyncPool[*BytePacket]
	gets  uint64
	puts  uint64
}

// NewPacketPool creates a pool handing out packets with payload buffers
// of at least payloadCap bytes.
func NewPacketPool(payloadCap int) *PacketPool {
	if payloadCap <= 0 {
		payloadCap = 2048
	}
	pp := &PacketPool{}
	pp.inner = NewSyncPool(func() *BytePacket {
		return &BytePacket{
			buf:  make([]byte, 0, payloadCap),
			pool: pp,
		}
	})
	return pp
}

// Warm pre-populates the pool so the first traffic burst does not
// allocate.
func (pp *PacketPool) Warm(n int) {
	pp.inner.Warm(n)
}

// Get returns a packet with an empty payload.
func (pp *PacketPool) Get() *BytePacket {
	atomic.AddUint64(&pp.gets, 1)
	p := pp.inner.Get()
	p.buf = p.buf[:0]
	return p
}

// Gets returns the number of Get calls, for accounting tests.
func (pp *PacketPool) Gets() uint64 { return atomic.LoadUint64(&pp.gets) }

// Puts returns the number of packets returned so far.
func (pp *PacketPool) Puts() uint64 { return atomic.LoadUint64(&pp.puts) }

func (pp *PacketPool) put(p *BytePacket) {
	atomic.AddUint64(&pp.puts, 1)
	pp.inner.Put(p)
}

// BytePacket is a pooled, byte-slice backed packet.
type BytePacket struct {
	buf  []byte
	pool *PacketPool
}

var _ api.Packet = (*BytePacket)(nil)

// SetPayload replaces the packet payload. The bytes are copied so the
// caller's buffer can be reused immediately.
func (p *BytePacket) SetPayload(b []byte) {
	p.buf = append(p.buf[:0], b...)
}

// Bytes returns the current payload.
func (p *BytePacket) Bytes() []byte { return p.buf }

// Len returns the payload size in bytes.
func (p *BytePacket) Len() int { return len(p.buf) }

// Release returns the packet to its pool. The packet must not be used
// afterwards.
func (p *BytePacket) Release() {
	if p.pool != nil {
		p.pool.put(p)
	}
}
