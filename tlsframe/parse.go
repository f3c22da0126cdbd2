package tlsframe

import "github.com/mel2oo/tlssniff/wire"

// TryParse attempts to parse a single TLS record out of the front of
// frame. frame may be a partial prefix of the record: in that case
// FrameInfo.Status is StatusIncompleteFrame and the returned bool is
// false, but whatever fields could be determined (e.g. the content type)
// are still populated.
//
// opts selects which optional fields to extract from a hello body; cb, if
// non-nil, is invoked once for every extension TLV encountered while
// walking a ClientHello or ServerHello's extensions, including ones this
// package does not itself decode.
//
// The returned bool is true only when the full record was present and
// understood (FrameInfo.Status == StatusOk).
func TryParse(frame []byte, opts Options, cb ExtensionCallback) (FrameInfo, bool) {
	var info FrameInfo
	if cb == nil {
		cb = func(*FrameInfo, ExtensionType, []byte) {}
	}

	header, ok := TryGetFrameHeader(frame)
	info.Header = header
	if header.Version != VersionNone {
		info.SupportedVersions |= header.Version
	}
	if !ok {
		if len(frame) < recordHeaderLengthBytes {
			info.escalate(StatusIncompleteFrame)
		} else {
			// Five or more bytes were available and still didn't match
			// either the SSL3-family or SSL2 unified-hello shape.
			info.escalate(StatusInvalidFrame)
		}
		return info, false
	}

	if header.Version == VersionSSL2 {
		info.HandshakeType = HandshakeClientHello
		info.SupportedVersions |= versionFromMinor(frame[4])
		info.Status = StatusOk
		return info, true
	}

	if header.ContentType == ContentTypeAlert {
		level, desc, ok := TryGetAlertInfo(frame)
		if !ok {
			info.escalate(StatusIncompleteFrame)
			return info, false
		}
		info.AlertLevel = level
		info.AlertDescription = desc
		info.Status = StatusOk
		return info, true
	}

	if header.ContentType != ContentTypeHandshake {
		info.escalate(StatusUnsupportedFrame)
		return info, false
	}

	if len(frame) <= recordHeaderLengthBytes {
		info.escalate(StatusIncompleteFrame)
		return info, false
	}
	info.HandshakeType = HandshakeType(frame[recordHeaderLengthBytes])

	end := recordHeaderLengthBytes + int(header.Length)
	complete := header.Length >= 0 && len(frame) >= end
	if complete {
		info.Status = StatusOk
	} else {
		info.escalate(StatusIncompleteFrame)
	}

	helloOK := true
	if header.Version >= VersionTLS10 &&
		(info.HandshakeType == HandshakeClientHello || info.HandshakeType == HandshakeServerHello) {
		sliceEnd := end
		if sliceEnd > len(frame) {
			sliceEnd = len(frame)
		}
		helloOK = parseHello(&info, opts, header.Length, wire.New(frame[recordHeaderLengthBytes:sliceEnd]), cb)
	}

	return info, complete && helloOK
}

// TryGetFrameInfo is an alias for TryParse kept for callers that parse a
// record purely to inspect its FrameInfo without caring about the
// extension callback.
func TryGetFrameInfo(frame []byte, opts Options) (FrameInfo, bool) {
	return TryParse(frame, opts, nil)
}

// GetServerName is a convenience wrapper that extracts just the SNI host
// name from a ClientHello, if present.
func GetServerName(frame []byte) (string, bool) {
	info, _ := TryParse(frame, OptionServerName, nil)
	return info.TargetName.Get()
}
