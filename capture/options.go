package capture

import "github.com/mel2oo/tlssniff/tlsframe"

const (
	DefaultStreamFlushTimeout int64 = 10
	DefaultStreamCloseTimeout int64 = 90

	DefaultMaxBufferedPagesTotal         int = 100000
	DefaultMaxBufferedPagesPerConnection int = 4000

	defaultChunkSizeBytes   int64 = 4096
	defaultMaxPoolSizeBytes int64 = 64 * 1024 * 1024
)

// Options controls how Capture reads packets and reassembles TCP streams
// before handing record bytes to tlsframe.
type Options struct {
	// Live, if true, reads from a network interface (ReadName is treated as
	// a device name). Otherwise ReadName is a pcap file path.
	Live     bool
	ReadName string
	BPFilter string

	// The maximum time we will wait before flushing a connection and
	// delivering what we have even if there is a gap in the sequence.
	StreamFlushTimeout int64

	// The maximum time we will leave a connection open waiting for traffic.
	StreamCloseTimeout int64

	MaxBufferedPagesTotal         int
	MaxBufferedPagesPerConnection int

	// Options forwarded to tlsframe.TryParse for every record.
	ParseOptions tlsframe.Options
}

func NewOptions() Options {
	return Options{
		StreamFlushTimeout:            DefaultStreamFlushTimeout,
		StreamCloseTimeout:            DefaultStreamCloseTimeout,
		MaxBufferedPagesTotal:         DefaultMaxBufferedPagesTotal,
		MaxBufferedPagesPerConnection: DefaultMaxBufferedPagesPerConnection,
		ParseOptions:                  tlsframe.OptionAll,
	}
}

type Option func(*Options)

func WithReadName(name string, live bool) Option {
	return func(o *Options) {
		o.Live = live
		o.ReadName = name
	}
}

func WithBPF(filter string) Option {
	return func(o *Options) {
		o.BPFilter = filter
	}
}

func WithStreamFlushTimeout(seconds int64) Option {
	return func(o *Options) {
		o.StreamFlushTimeout = seconds
	}
}

func WithStreamCloseTimeout(seconds int64) Option {
	return func(o *Options) {
		o.StreamCloseTimeout = seconds
	}
}
