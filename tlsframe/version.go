package tlsframe

// ProtocolVersion doubles as a single discrete version tag (as returned in
// RecordHeader.Version) and as a monotonic bitset of every version seen
// while parsing a single frame (FrameInfo.SupportedVersions): the zero
// value of each of these constants is distinct and a later constant's
// value is always numerically greater than an earlier one's, so ordinary
// integer comparisons (">=", ">") order them chronologically even though
// they're bit flags.
type ProtocolVersion uint16

const (
	VersionNone  ProtocolVersion = 0
	VersionSSL2  ProtocolVersion = 1 << 0
	VersionSSL3  ProtocolVersion = 1 << 1
	VersionTLS10 ProtocolVersion = 1 << 2
	VersionTLS11 ProtocolVersion = 1 << 3
	VersionTLS12 ProtocolVersion = 1 << 4
	VersionTLS13 ProtocolVersion = 1 << 5
)

func (v ProtocolVersion) String() string {
	switch v {
	case VersionNone:
		return "none"
	case VersionSSL2:
		return "ssl2"
	case VersionSSL3:
		return "ssl3"
	case VersionTLS10:
		return "tls1.0"
	case VersionTLS11:
		return "tls1.1"
	case VersionTLS12:
		return "tls1.2"
	case VersionTLS13:
		return "tls1.3"
	default:
		return "mixed"
	}
}

// versionFromMinor maps a {major=3, minor} record/hello version pair's
// minor byte to the corresponding ProtocolVersion tag. Only called once
// the major byte has already been checked to be 3.
func versionFromMinor(minor byte) ProtocolVersion {
	switch minor {
	case 0:
		return VersionSSL3
	case 1:
		return VersionTLS10
	case 2:
		return VersionTLS11
	case 3:
		return VersionTLS12
	case 4:
		return VersionTLS13
	default:
		return VersionNone
	}
}

// minorForVersion is the inverse of versionFromMinor, used when
// synthesizing an Alert record for a given negotiated version. Only
// defined for SSL3 and the TLS1.x family.
func minorForVersion(v ProtocolVersion) (minor byte, ok bool) {
	switch v {
	case VersionSSL3:
		return 0, true
	case VersionTLS10:
		return 1, true
	case VersionTLS11:
		return 2, true
	case VersionTLS12:
		return 3, true
	case VersionTLS13:
		return 4, true
	default:
		return 0, false
	}
}
