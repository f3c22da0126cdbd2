package capture

import (
	"net"
	"time"

	"github.com/mel2oo/tlssniff/gid"
	"github.com/mel2oo/tlssniff/ja3"
	"github.com/mel2oo/tlssniff/optionals"
	"github.com/mel2oo/tlssniff/tlsframe"
)

// Observation is one complete TLS/SSL record peeled off a flow and run
// through tlsframe.TryParse, tagged with the connection and direction it
// was read from. One is emitted for every complete record, whatever the
// parse outcome; Frame.Status reports that outcome.
type Observation struct {
	Connection gid.ConnectionID

	SrcIP   net.IP
	SrcPort int
	DstIP   net.IP
	DstPort int

	ObservationTime time.Time

	Frame tlsframe.FrameInfo

	// JA3/JA3S, populated only for ClientHello/ServerHello frames
	// respectively; zero-valued otherwise.
	ClientJA3 optionals.Optional[ja3.Digest]
	ServerJA3 optionals.Optional[ja3.Digest]
}
