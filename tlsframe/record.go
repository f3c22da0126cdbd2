package tlsframe

// Record header field widths, mirrored from the teacher's gnet/tls/const.go.
const (
	recordHeaderLengthBytes = 5
	ssl2MinBodyLength       = 20
	ssl2MaxBodyLength       = 1000
)

// TryGetFrameHeader parses the 5-byte TLS record header, or recognizes an
// SSL 2.0 unified ClientHello's equivalent framing. ok is false whenever
// the header could not be fully determined, in which case Header.Length is
// -1 and Header.Version is VersionNone; Header.ContentType is still filled
// in when at least one byte was available.
func TryGetFrameHeader(frame []byte) (header RecordHeader, ok bool) {
	header.Length = -1
	header.Version = VersionNone

	if len(frame) == 0 {
		return header, false
	}
	header.ContentType = ContentType(frame[0])
	if len(frame) < recordHeaderLengthBytes {
		return header, false
	}

	if frame[1] == 3 {
		header.Version = versionFromMinor(frame[2])
		header.Length = int32(frame[3])<<8 | int32(frame[4])
		return header, true
	}

	if ssl2Header, ok := trySSL2Header(frame); ok {
		return ssl2Header, true
	}

	header.Length = -1
	header.Version = VersionNone
	return header, false
}

// trySSL2Header recognizes an SSL 2.0 unified ClientHello record: either a
// 2-byte length prefix with the top bit set (no padding, no MAC) or a
// 3-byte length prefix (with padding), followed by msg_type=1 and a
// {major=3} client version. The computed body length is sanity-checked
// against a plausible ClientHello size window.
func trySSL2Header(frame []byte) (RecordHeader, bool) {
	if len(frame) < 4 {
		return RecordHeader{}, false
	}
	if frame[2] != 1 || frame[3] != 3 {
		return RecordHeader{}, false
	}

	var length int32
	if frame[0]&0x80 != 0 {
		length = (int32(frame[0]&0x7f)<<8 | int32(frame[1])) + 2
	} else {
		length = (int32(frame[0]&0x3f)<<8 | int32(frame[1])) + 3
	}

	if length <= ssl2MinBodyLength || length >= ssl2MaxBodyLength {
		return RecordHeader{}, false
	}

	return RecordHeader{
		ContentType: ContentTypeHandshake,
		Version:     VersionSSL2,
		Length:      length,
	}, true
}

// GetFrameSize returns the total number of bytes the record occupies
// (header included), or -1 if the header cannot be read yet or its major
// version byte isn't 3 (frame[1] != 3) — which also excludes an SSL 2.0
// unified hello, whose framing has no such byte at all. Callers that also
// want to size SSL 2.0 hellos should fall back to GetSSL2FrameSize.
func GetFrameSize(frame []byte) int {
	if len(frame) < 2 || frame[1] != 3 {
		return -1
	}
	header, ok := TryGetFrameHeader(frame)
	if !ok || header.Length < 0 {
		return -1
	}
	return recordHeaderLengthBytes + int(header.Length)
}

// GetSSL2FrameSize returns the total number of bytes an SSL 2.0 unified
// ClientHello occupies (its own header included), or -1 if frame doesn't
// start with recognizable SSL 2.0 framing.
func GetSSL2FrameSize(frame []byte) int {
	header, ok := trySSL2Header(frame)
	if !ok {
		return -1
	}
	return int(header.Length)
}
