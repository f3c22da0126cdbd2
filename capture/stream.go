package capture

import (
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/reassembly"

	"github.com/mel2oo/tlssniff/gid"
	"github.com/mel2oo/tlssniff/ja3"
	"github.com/mel2oo/tlssniff/mempool"
	"github.com/mel2oo/tlssniff/optionals"
	"github.com/mel2oo/tlssniff/tlsframe"
)

// tcpFlow accumulates one direction of a TCP stream's bytes and peels
// complete TLS/SSL records off the front as they become available.
//
// Based on pcap/pcap_stream.go's tcpFlow, simplified: this module doesn't
// need a pluggable higher-level protocol parser, so a flow just keeps a
// pending-bytes buffer and calls tlsframe.TryParse in a loop instead of
// delegating to a gnet.TCPParser.
type tcpFlow struct {
	netFlow gopacket.Flow
	tcpFlow gopacket.Flow

	connID gid.ConnectionID

	outChan   chan<- Observation
	parseOpts tlsframe.Options
	pending   mempool.Buffer
}

func newTCPFlow(connID gid.ConnectionID, nf, tf gopacket.Flow, pool mempool.BufferPool,
	outChan chan<- Observation, parseOpts tlsframe.Options) *tcpFlow {
	return &tcpFlow{
		netFlow:   nf,
		tcpFlow:   tf,
		connID:    connID,
		outChan:   outChan,
		parseOpts: parseOpts,
		pending:   pool.NewBuffer(),
	}
}

func (f *tcpFlow) reassembled(sg reassembly.ScatterGather, ac reassembly.AssemblerContext) {
	bytesAvailable, _ := sg.Lengths()
	if bytesAvailable == 0 {
		return
	}

	if _, err := f.pending.Write(sg.Fetch(bytesAvailable)); err != nil {
		// The pool ran dry; drop what we can't buffer rather than blocking
		// the assembler. The next reassembled call picks back up.
		return
	}

	var observedAt time.Time
	if ac != nil {
		observedAt = ac.GetCaptureInfo().Timestamp
	}
	f.drain(observedAt)
}

// drain repeatedly peels one complete record off the front of f.pending and
// emits an Observation for it, leaving any trailing partial record buffered
// for the next call.
func (f *tcpFlow) drain(observedAt time.Time) {
	for {
		buffered := f.pending.Bytes().Bytes()
		if len(buffered) == 0 {
			return
		}

		size := tlsframe.GetFrameSize(buffered)
		if size < 0 {
			// Not a major-version-3 record; it may still be an SSL 2.0
			// unified hello, which GetFrameSize deliberately doesn't size.
			size = tlsframe.GetSSL2FrameSize(buffered)
		}
		if size < 0 || size > len(buffered) {
			// Either the header can't be read yet, or the full record hasn't
			// arrived yet. Wait for more bytes.
			return
		}

		frame := buffered[:size]
		info, _ := tlsframe.TryParse(frame, f.parseOpts, nil)
		f.emit(info, frame, observedAt)

		rest := buffered[size:]
		f.pending.Reset()
		if len(rest) > 0 {
			if _, err := f.pending.Write(rest); err != nil {
				return
			}
		}
	}
}

func (f *tcpFlow) emit(info tlsframe.FrameInfo, frame []byte, observedAt time.Time) {
	obs := f.toObservation(info, observedAt)

	switch info.HandshakeType {
	case tlsframe.HandshakeClientHello:
		if digest, err := ja3.ClientHash(frame); err == nil {
			obs.ClientJA3 = optionals.Some(digest)
		}
	case tlsframe.HandshakeServerHello:
		if digest, err := ja3.ServerHash(frame); err == nil {
			obs.ServerJA3 = optionals.Some(digest)
		}
	}

	f.outChan <- obs
}

func (f *tcpFlow) toObservation(info tlsframe.FrameInfo, observedAt time.Time) Observation {
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	srcE, dstE := f.netFlow.Endpoints()
	srcP, dstP := f.tcpFlow.Endpoints()

	return Observation{
		Connection:      f.connID,
		SrcIP:           net.IP(srcE.Raw()),
		SrcPort:         tcpPort(srcP),
		DstIP:           net.IP(dstE.Raw()),
		DstPort:         tcpPort(dstP),
		ObservationTime: observedAt,
		Frame:           info,
	}
}

func tcpPort(e gopacket.Endpoint) int {
	raw := e.Raw()
	if len(raw) != 2 {
		return 0
	}
	return int(raw[0])<<8 | int(raw[1])
}

// tcpStream represents a pair of uni-directional tcpFlows and implements
// reassembly.Stream to receive reassembled packets for both directions.
//
// Based on pcap/pcap_stream.go's tcpStream.
type tcpStream struct {
	connID gid.ConnectionID

	netFlow gopacket.Flow
	flows   map[reassembly.TCPFlowDirection]*tcpFlow

	pool      mempool.BufferPool
	outChan   chan<- Observation
	parseOpts tlsframe.Options
}

func newTCPStream(netFlow gopacket.Flow, pool mempool.BufferPool,
	outChan chan<- Observation, parseOpts tlsframe.Options, onNew func(gid.ConnectionID)) *tcpStream {
	connID := gid.GenerateConnectionID()
	if onNew != nil {
		onNew(connID)
	}
	return &tcpStream{
		connID:    connID,
		netFlow:   netFlow,
		pool:      pool,
		outChan:   outChan,
		parseOpts: parseOpts,
	}
}

func (c *tcpStream) Accept(tcp *layers.TCP, _ gopacket.CaptureInfo,
	dir reassembly.TCPFlowDirection, _ reassembly.Sequence,
	start *bool, _ reassembly.AssemblerContext) bool {
	// Force the stream to start even without having observed the SYN: we
	// may be looking at a connection that was already established.
	*start = true

	if c.flows == nil {
		tf, _ := gopacket.FlowFromEndpoints(
			layers.NewTCPPortEndpoint(tcp.SrcPort),
			layers.NewTCPPortEndpoint(tcp.DstPort),
		)
		s1 := newTCPFlow(c.connID, c.netFlow, tf, c.pool, c.outChan, c.parseOpts)
		s2 := newTCPFlow(c.connID, c.netFlow.Reverse(), tf.Reverse(), c.pool, c.outChan, c.parseOpts)
		c.flows = map[reassembly.TCPFlowDirection]*tcpFlow{
			dir:           s1,
			dir.Reverse(): s2,
		}
	}

	// Accept everything: we want to observe every flow's TLS framing, not
	// just ones that look like a clean TCP handshake.
	return true
}

func (c *tcpStream) ReassembledSG(sg reassembly.ScatterGather, ac reassembly.AssemblerContext) {
	if c.flows == nil {
		return
	}
	dir, _, _, _ := sg.Info()
	c.flows[dir].reassembled(sg, ac)
}

func (c *tcpStream) ReassemblyComplete(_ reassembly.AssemblerContext) bool {
	for _, f := range c.flows {
		f.pending.Release()
	}
	return true
}

// tcpStreamFactory implements reassembly.StreamFactory.
type tcpStreamFactory struct {
	pool      mempool.BufferPool
	outChan   chan<- Observation
	parseOpts tlsframe.Options
	onNew     func(gid.ConnectionID)
}

func newTCPStreamFactory(pool mempool.BufferPool, outChan chan<- Observation,
	parseOpts tlsframe.Options, onNew func(gid.ConnectionID)) *tcpStreamFactory {
	return &tcpStreamFactory{
		pool:      pool,
		outChan:   outChan,
		parseOpts: parseOpts,
		onNew:     onNew,
	}
}

func (fact *tcpStreamFactory) New(netFlow, _ gopacket.Flow, _ *layers.TCP,
	_ reassembly.AssemblerContext) reassembly.Stream {
	return newTCPStream(netFlow, fact.pool, fact.outChan, fact.parseOpts, fact.onNew)
}
