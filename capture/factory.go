package capture

import "github.com/google/gopacket"

// assemblerCtxWithSeq carries the originating packet's capture info through
// the reassembler, so a flow can time-stamp the record it emits with when
// the packet was captured rather than when it got around to parsing it.
// Based on pcap/pcap_factory.go's identically-named type.
type assemblerCtxWithSeq struct {
	ci gopacket.CaptureInfo
}

func contextFromPacket(p gopacket.Packet) *assemblerCtxWithSeq {
	return &assemblerCtxWithSeq{ci: p.Metadata().CaptureInfo}
}

func (ctx *assemblerCtxWithSeq) GetCaptureInfo() gopacket.CaptureInfo {
	return ctx.ci
}
