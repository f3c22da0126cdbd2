package tlsframe

// TryGetAlertInfo reads the level and description bytes out of a complete
// Alert record. It returns false if the header isn't an Alert record, or
// if frame doesn't yet contain the full 7-byte Alert record.
func TryGetAlertInfo(frame []byte) (level AlertLevel, description AlertDescription, ok bool) {
	header, headerOK := TryGetFrameHeader(frame)
	if !headerOK || header.ContentType != ContentTypeAlert {
		return 0, 0, false
	}
	if len(frame) < recordHeaderLengthBytes+2 {
		return 0, 0, false
	}
	return AlertLevel(frame[5]), AlertDescription(frame[6]), true
}

// CreateAlertFrame synthesizes a fatal Alert record for the given
// negotiated version and reason.
//
// For reason == AlertProtocolVersion, the five SSL3/TLS wire versions each
// have a fixed, teacher-observed 7-byte encoding; SSL3 has no native
// protocol_version alert code, so it falls back to handshake_failure (40).
// For any other reason, a generic {alert, major=3, minor, 0, 2, level=2,
// reason} record is built, but only for TLS1.0 and later — SSL2 and SSL3
// don't get a synthesized alert for an arbitrary reason, and nil is
// returned instead.
func CreateAlertFrame(version ProtocolVersion, reason AlertDescription) []byte {
	if reason == AlertProtocolVersion {
		switch version {
		case VersionTLS13:
			return []byte{0x15, 0x03, 0x04, 0x00, 0x02, 0x02, 0x46}
		case VersionTLS12:
			return []byte{0x15, 0x03, 0x03, 0x00, 0x02, 0x02, 0x46}
		case VersionTLS11:
			return []byte{0x15, 0x03, 0x02, 0x00, 0x02, 0x02, 0x46}
		case VersionTLS10:
			return []byte{0x15, 0x03, 0x01, 0x00, 0x02, 0x02, 0x46}
		case VersionSSL3:
			return []byte{0x15, 0x03, 0x00, 0x00, 0x02, 0x02, 0x28}
		default:
			return nil
		}
	}

	if version <= VersionSSL3 {
		return nil
	}
	minor, ok := minorForVersion(version)
	if !ok {
		return nil
	}
	return []byte{
		byte(ContentTypeAlert), 3, minor,
		0, 2,
		byte(AlertLevelFatal), byte(reason),
	}
}
