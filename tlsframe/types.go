// Package tlsframe is a pure, streaming parser for the outer framing of
// SSL/TLS records and for the ClientHello/ServerHello handshake messages
// carried inside them. It takes a (possibly partial) byte buffer sniffed
// from the front of a TLS connection and returns a FrameInfo describing it:
// the record header, the handshake type, the negotiated/offered protocol
// versions, the SNI host name, the offered ALPN protocols, and the list of
// cipher suites. It also recognizes Alert records and can synthesize
// outgoing protocol-version-mismatch Alert frames.
//
// The package is pure, synchronous, allocation-light, and holds no state
// across calls: two goroutines may call TryParse concurrently on disjoint
// buffers without coordination. It never reads past the slice it is given,
// and it never panics — every failure mode is reported through the
// returned FrameInfo.Status.
//
// It does not validate the semantic correctness of a handshake (that
// cipher suites are allowed, that extensions are permitted for the role),
// does not encode a full ClientHello, and does not decrypt records.
package tlsframe

import "github.com/mel2oo/tlssniff/optionals"

// ContentType is the outermost TLS record type, carried in the first byte
// of every record.
type ContentType byte

const (
	ContentTypeChangeCipherSpec ContentType = 20
	ContentTypeAlert            ContentType = 21
	ContentTypeHandshake        ContentType = 22
	ContentTypeApplicationData  ContentType = 23
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeChangeCipherSpec:
		return "change_cipher_spec"
	case ContentTypeAlert:
		return "alert"
	case ContentTypeHandshake:
		return "handshake"
	case ContentTypeApplicationData:
		return "application_data"
	default:
		return "unknown"
	}
}

// HandshakeType is the first byte of a Handshake record's body.
type HandshakeType byte

const (
	HandshakeHelloRequest       HandshakeType = 0
	HandshakeClientHello        HandshakeType = 1
	HandshakeServerHello        HandshakeType = 2
	HandshakeNewSessionTicket   HandshakeType = 4
	HandshakeEndOfEarlyData     HandshakeType = 5
	HandshakeEncryptedExtension HandshakeType = 8
	HandshakeCertificate        HandshakeType = 11
	HandshakeServerKeyExchange  HandshakeType = 12
	HandshakeCertificateRequest HandshakeType = 13
	HandshakeServerHelloDone    HandshakeType = 14
	HandshakeCertificateVerify  HandshakeType = 15
	HandshakeClientKeyExchange  HandshakeType = 16
	HandshakeFinished           HandshakeType = 20
	HandshakeCertificateStatus  HandshakeType = 22
	HandshakeKeyUpdate          HandshakeType = 24
	HandshakeMessageHash        HandshakeType = 254
)

// AlertLevel is the first byte of an Alert record's body.
type AlertLevel byte

const (
	AlertLevelWarning AlertLevel = 1
	AlertLevelFatal   AlertLevel = 2
)

// AlertDescription is the second byte of an Alert record's body, per the
// IANA TLS Alert registry.
type AlertDescription byte

const (
	AlertCloseNotify                  AlertDescription = 0
	AlertUnexpectedMessage            AlertDescription = 10
	AlertBadRecordMAC                 AlertDescription = 20
	AlertDecryptionFailed             AlertDescription = 21
	AlertRecordOverflow               AlertDescription = 22
	AlertDecompressionFailure         AlertDescription = 30
	AlertHandshakeFailure             AlertDescription = 40
	AlertNoCertificate                AlertDescription = 41
	AlertBadCertificate               AlertDescription = 42
	AlertUnsupportedCertificate       AlertDescription = 43
	AlertCertificateRevoked           AlertDescription = 44
	AlertCertificateExpired           AlertDescription = 45
	AlertCertificateUnknown           AlertDescription = 46
	AlertIllegalParameter             AlertDescription = 47
	AlertUnknownCA                    AlertDescription = 48
	AlertAccessDenied                 AlertDescription = 49
	AlertDecodeError                  AlertDescription = 50
	AlertDecryptError                 AlertDescription = 51
	AlertExportRestriction            AlertDescription = 60
	AlertProtocolVersion              AlertDescription = 70
	AlertInsufficientSecurity         AlertDescription = 71
	AlertInternalError                AlertDescription = 80
	AlertInappropriateFallback        AlertDescription = 86
	AlertUserCanceled                 AlertDescription = 90
	AlertNoRenegotiation              AlertDescription = 100
	AlertMissingExtension             AlertDescription = 109
	AlertUnsupportedExtension         AlertDescription = 110
	AlertCertificateUnobtainable      AlertDescription = 111
	AlertUnrecognizedName             AlertDescription = 112
	AlertBadCertificateStatusResponse AlertDescription = 113
	AlertBadCertificateHashValue      AlertDescription = 114
	AlertUnknownPSKIdentity           AlertDescription = 115
	AlertCertificateRequired          AlertDescription = 116
	AlertNoApplicationProtocol        AlertDescription = 120
)

// ExtensionType is the two-byte type tag of a ClientHello/ServerHello
// extension TLV.
type ExtensionType uint16

const (
	ExtensionServerName                         ExtensionType = 0
	ExtensionMaxFragmentLength                   ExtensionType = 1
	ExtensionStatusRequest                       ExtensionType = 5
	ExtensionSupportedGroups                     ExtensionType = 10
	ExtensionECPointFormats                      ExtensionType = 11
	ExtensionSignatureAlgorithms                 ExtensionType = 13
	ExtensionApplicationLayerProtocolNegotiation ExtensionType = 16
	ExtensionSignedCertificateTimestamp          ExtensionType = 18
	ExtensionPadding                             ExtensionType = 21
	ExtensionExtendedMasterSecret                ExtensionType = 23
	ExtensionSessionTicket                       ExtensionType = 35
	ExtensionPreSharedKey                        ExtensionType = 41
	ExtensionEarlyData                           ExtensionType = 42
	ExtensionSupportedVersions                   ExtensionType = 43
	ExtensionCookie                              ExtensionType = 44
	ExtensionPSKKeyExchangeModes                 ExtensionType = 45
	ExtensionCertificateAuthorities              ExtensionType = 47
	ExtensionOIDFilters                          ExtensionType = 48
	ExtensionPostHandshakeAuth                   ExtensionType = 49
	ExtensionSignatureAlgorithmsCert             ExtensionType = 50
	ExtensionKeyShare                            ExtensionType = 51
	ExtensionRenegotiationInfo                   ExtensionType = 0xff01
)

// ApplicationProtocolSet is a bitset of the application-layer protocols
// seen in an ALPN extension.
type ApplicationProtocolSet uint8

const (
	AppProtoNone  ApplicationProtocolSet = 0
	AppProtoHTTP1 ApplicationProtocolSet = 1 << 0
	AppProtoHTTP2 ApplicationProtocolSet = 1 << 1
	AppProtoOther ApplicationProtocolSet = 1 << 2
)

// Has reports whether every bit in want is set in s.
func (s ApplicationProtocolSet) Has(want ApplicationProtocolSet) bool {
	return s&want == want
}

// Options is a bitset of which optional processing steps TryParse should
// perform. Unrecognized bits are ignored.
type Options uint32

const (
	OptionServerName          Options = 1 << 0
	OptionApplicationProtocol Options = 1 << 1
	OptionVersions            Options = 1 << 2
	OptionCipherSuites        Options = 1 << 3
	OptionAll                 Options = 0x7fffffff
)

// Has reports whether bit is set in o.
func (o Options) Has(bit Options) bool {
	return o&bit != 0
}

// ParsingStatus classifies the outcome of a parse.
type ParsingStatus int

const (
	StatusOk ParsingStatus = iota
	StatusIncompleteFrame
	StatusInvalidFrame
	StatusUnsupportedFrame
)

func (s ParsingStatus) String() string {
	switch s {
	case StatusOk:
		return "ok"
	case StatusIncompleteFrame:
		return "incomplete_frame"
	case StatusInvalidFrame:
		return "invalid_frame"
	case StatusUnsupportedFrame:
		return "unsupported_frame"
	default:
		return "unknown"
	}
}

// severity ranks statuses so that InvalidFrame/UnsupportedFrame, once set,
// are never downgraded back to Ok or IncompleteFrame.
func (s ParsingStatus) severity() int {
	switch s {
	case StatusOk:
		return 0
	case StatusIncompleteFrame:
		return 1
	case StatusInvalidFrame, StatusUnsupportedFrame:
		return 2
	default:
		return 0
	}
}

// RecordHeader describes the outermost 5-byte TLS record framing (or the
// SSL 2.0 unified ClientHello's equivalent).
type RecordHeader struct {
	ContentType ContentType
	Version     ProtocolVersion
	// Length is the record body length in bytes, or -1 if the header could
	// not be determined.
	Length int32
}

// FrameInfo is the sole output of the parser. It is constructed fresh for
// every call to TryParse and never retains a reference to the input buffer.
type FrameInfo struct {
	Header RecordHeader

	HandshakeType HandshakeType

	// SupportedVersions accumulates monotonically: bits are only ever set,
	// never cleared, as evidence is discovered in the record header, the
	// hello body, and the supported_versions extension.
	SupportedVersions ProtocolVersion

	// TargetName is the SNI host name, present only when requested via
	// OptionServerName and found in a ClientHello.
	TargetName optionals.Optional[string]

	ApplicationProtocols ApplicationProtocolSet

	AlertLevel       AlertLevel
	AlertDescription AlertDescription

	// CipherSuites is populated only when OptionCipherSuites is set and the
	// handshake message is a ClientHello.
	CipherSuites []uint16

	Status ParsingStatus
}

// escalate raises info.Status to s unless info.Status is already at least
// as severe (InvalidFrame/UnsupportedFrame are sticky and never downgraded).
func (info *FrameInfo) escalate(s ParsingStatus) {
	if s.severity() > info.Status.severity() {
		info.Status = s
	}
}

// ExtensionCallback observes every extension TLV encountered while walking
// a hello body, including ones this package does not otherwise decode. It
// must not retain body past the call; its return value, if any, is ignored.
type ExtensionCallback func(info *FrameInfo, extType ExtensionType, body []byte)
