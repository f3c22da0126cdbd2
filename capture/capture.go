// Package capture demonstrates tlsframe's streaming parser against real
// network traffic: it reads packets from a pcap file or a live interface,
// reassembles TCP streams with gopacket/reassembly, and feeds each
// direction's byte stream through tlsframe one record at a time.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/reassembly"

	"github.com/mel2oo/tlssniff/gid"
	"github.com/mel2oo/tlssniff/mempool"
	"github.com/mel2oo/tlssniff/sets"
)

// Capturer reads packets and turns them into a stream of Observations.
type Capturer struct {
	opts   Options
	reader PacketReader
	pool   mempool.BufferPool
	out    chan Observation

	mu   sync.Mutex
	seen sets.Set[gid.ConnectionID]
}

func New(opt ...Option) (*Capturer, error) {
	opts := NewOptions()
	for _, o := range opt {
		o(&opts)
	}

	if len(opts.ReadName) == 0 {
		return nil, errors.New("capture: no pcap file or device name given")
	}

	var reader PacketReader
	if opts.Live {
		reader = NewDeviceReader(opts.ReadName, opts.BPFilter)
	} else {
		reader = NewFileReader(opts.ReadName, opts.BPFilter)
	}

	pool, err := mempool.MakeBufferPool(defaultMaxPoolSizeBytes, defaultChunkSizeBytes)
	if err != nil {
		return nil, err
	}

	return &Capturer{
		opts:   opts,
		reader: reader,
		pool:   pool,
		out:    make(chan Observation, 100),
		seen:   sets.NewSet[gid.ConnectionID](),
	}, nil
}

// Connections returns the set of connection IDs observed so far. Safe to
// call concurrently with Run.
func (c *Capturer) Connections() []gid.ConnectionID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seen.AsSlice()
}

func (c *Capturer) noteConnection(id gid.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen.Insert(id)
}

// Run starts capturing. The returned channel is closed once the underlying
// packet source is exhausted (pcap file read to EOF) or ctx is cancelled.
func (c *Capturer) Run(ctx context.Context) (<-chan Observation, error) {
	packets, err := c.reader.Capture(ctx)
	if err != nil {
		return nil, err
	}

	streamFactory := newTCPStreamFactory(c.pool, c.out, c.opts.ParseOptions, c.noteConnection)
	streamPool := reassembly.NewStreamPool(streamFactory)
	assembler := reassembly.NewAssembler(streamPool)
	assembler.AssemblerOptions.MaxBufferedPagesTotal = c.opts.MaxBufferedPagesTotal
	assembler.AssemblerOptions.MaxBufferedPagesPerConnection = c.opts.MaxBufferedPagesPerConnection

	streamFlushTimeout := time.Duration(c.opts.StreamFlushTimeout) * time.Second
	streamCloseTimeout := time.Duration(c.opts.StreamCloseTimeout) * time.Second

	go func() {
		ticker := time.NewTicker(streamFlushTimeout / 4)
		defer ticker.Stop()
		defer close(c.out)

		for {
			select {
			case packet, more := <-packets:
				if !more || packet == nil {
					// Flush and close every remaining connection so their
					// trailing partial records get a chance to be reported.
					assembler.FlushAll()
					return
				}
				c.handlePacket(assembler, packet)

			case <-ticker.C:
				now := time.Now()
				flushed, closed := assembler.FlushWithOptions(reassembly.FlushOptions{
					T:  now.Add(-streamFlushTimeout),
					TC: now.Add(-streamCloseTimeout),
				})
				_ = flushed
				_ = closed
			}
		}
	}()

	return c.out, nil
}

func (c *Capturer) handlePacket(assembler *reassembly.Assembler, packet gopacket.Packet) {
	defer func() {
		if err := recover(); err != nil {
			fmt.Println("capture: packet handling panic:", err)
		}
	}()

	if packet.NetworkLayer() == nil {
		return
	}

	tcp, ok := packet.TransportLayer().(*layers.TCP)
	if !ok {
		// Only TCP carries TLS record framing worth reassembling; other
		// transports aren't in this module's scope.
		return
	}

	assembler.AssembleWithContext(packet.NetworkLayer().NetworkFlow(), tcp,
		contextFromPacket(packet))
}
