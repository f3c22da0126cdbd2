package tlsframe

import "github.com/mel2oo/tlssniff/wire"

// minHelloBodyLength is the smallest ClientHello/ServerHello body length
// accepted, 44 bytes. The fixed fields of a minimal hello (version 2 +
// random 32 + sid-length 1 + ciphers-length 2 + method-length 1 + one
// cipher pair 2 + one method 1) add up to 41 bytes; the floor is 3 above
// that.
const minHelloBodyLength = 44

// parseHello re-derives the handshake message header (msg_type, u24
// length) from slice and dispatches to the ClientHello or ServerHello body
// parser. slice covers exactly the bytes available for this handshake
// message in the current buffer, which may be less than the declared
// length if the frame is still arriving.
//
// headerLength is the outer TLS record's declared body length (from
// RecordHeader.Length), used to sanity-check the inner handshake length
// against the space the record claims to have for it.
func parseHello(info *FrameInfo, opts Options, headerLength int32, slice wire.View, cb ExtensionCallback) bool {
	if headerLength-4 < minHelloBodyLength {
		// A record that doesn't even declare room for a minimal hello is
		// treated the same as a too-short buffer rather than as a hard
		// error: a handshake message is allowed to span more than one TLS
		// record, so this record's small declared length is consistent
		// with it being only the first fragment of a larger ClientHello
		// that continues in a follow-up record not yet seen.
		info.escalate(StatusIncompleteFrame)
		return false
	}

	c := wire.NewCursor(slice)
	if c.Len() < 4 {
		info.escalate(StatusIncompleteFrame)
		return false
	}

	msgType, c, err := c.ReadU8()
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}
	helloLen, c, err := c.ReadU24BE()
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}

	if msgType != byte(HandshakeClientHello) && msgType != byte(HandshakeServerHello) {
		info.escalate(StatusUnsupportedFrame)
		return false
	}
	if int32(helloLen) < minHelloBodyLength || int32(helloLen) > headerLength-4 {
		info.escalate(StatusInvalidFrame)
		return false
	}

	body, _, err := c.TakeN(int64(helloLen))
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}

	bc := wire.NewCursor(body)
	version, bc, err := bc.ReadU16BE()
	if err != nil {
		info.escalate(StatusInvalidFrame)
		return false
	}
	if major := byte(version >> 8); major == 3 {
		info.SupportedVersions |= versionFromMinor(byte(version))
	}

	switch HandshakeType(msgType) {
	case HandshakeClientHello:
		info.HandshakeType = HandshakeClientHello
		return parseClientHelloBody(info, opts, bc, cb)
	case HandshakeServerHello:
		info.HandshakeType = HandshakeServerHello
		return parseServerHelloBody(info, opts, bc, cb)
	default:
		return false
	}
}
