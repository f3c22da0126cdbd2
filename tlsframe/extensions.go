package tlsframe

import (
	"unicode/utf8"

	"github.com/mel2oo/tlssniff/optionals"
	"github.com/mel2oo/tlssniff/wire"
)

const sniHostNameType = 0x00

// walkExtensions iterates the {u16 type; u16 len; body} TLV sequence that
// follows a ClientHello or ServerHello body, invoking cb on every entry
// (recognized or not) and dispatching the ones this package decodes.
//
// The walk ends once fewer than 4 bytes remain; any such trailing bytes
// are ignored and the walk still returns true. It returns false when an
// extension's declared length runs past the remaining bytes (marked
// IncompleteFrame, not a hard failure — the fields gathered so far are
// still useful) or a structurally required decoder (server_name,
// supported_versions) rejected its body (marked InvalidFrame, a hard
// failure).
func walkExtensions(info *FrameInfo, opts Options, extensions wire.View, cb ExtensionCallback) bool {
	c := wire.NewCursor(extensions)
	for c.Len() >= 4 {
		extType, next, err := c.ReadU16BE()
		if err != nil {
			break
		}
		extLen, next, err := next.ReadU16BE()
		if err != nil {
			break
		}
		if int64(extLen) > next.Len() {
			info.escalate(StatusIncompleteFrame)
			return false
		}
		body, next, err := next.TakeN(int64(extLen))
		if err != nil {
			info.escalate(StatusIncompleteFrame)
			return false
		}
		c = next

		cb(info, ExtensionType(extType), body.Bytes())

		switch ExtensionType(extType) {
		case ExtensionServerName:
			if opts.Has(OptionServerName) {
				if !decodeServerName(info, body) {
					info.escalate(StatusInvalidFrame)
					return false
				}
			}
		case ExtensionSupportedVersions:
			if opts.Has(OptionVersions) {
				if !decodeSupportedVersions(info, body) {
					info.escalate(StatusInvalidFrame)
					return false
				}
			}
		case ExtensionApplicationLayerProtocolNegotiation:
			if opts.Has(OptionApplicationProtocol) {
				decodeALPN(info, body)
			}
		}
	}
	return true
}

// decodeServerName reads the first entry of a server_name extension's
// ServerNameList. Only the host_name (type 0) entry is recognized; the
// teacher's parser reads only the first list entry, which this preserves.
//
// Returns false only for structural problems (truncated list, wrong name
// type). A host name that fails UTF-8 validation is not a structural
// failure: the extension is well-formed, TargetName is simply left unset.
func decodeServerName(info *FrameInfo, body wire.View) bool {
	c := wire.NewCursor(body)
	list, _, err := c.TakeOpaque2()
	if err != nil {
		return false
	}

	lc := wire.NewCursor(list)
	nameType, lc, err := lc.ReadU8()
	if err != nil {
		return false
	}
	hostBody, _, err := lc.TakeOpaque2()
	if err != nil {
		return false
	}
	if nameType != sniHostNameType {
		return false
	}

	raw := hostBody.Bytes()
	if !utf8.Valid(raw) {
		return true
	}
	host := string(raw)
	if decoded, err := decodeIDN(host); err == nil {
		info.TargetName = optionals.Some(decoded)
	} else {
		// IDN rejected the label (e.g. disallowed code point); fall back to
		// the raw, already-UTF8-validated host name rather than dropping it.
		info.TargetName = optionals.Some(host)
	}
	return true
}

// decodeSupportedVersions reads the supported_versions extension's vector
// of 2-byte versions, accumulating every major=3 entry into
// info.SupportedVersions. The outer 1-byte vector length must exactly
// account for the rest of the extension body.
func decodeSupportedVersions(info *FrameInfo, body wire.View) bool {
	c := wire.NewCursor(body)
	list, rest, err := c.TakeOpaque1()
	if err != nil {
		return false
	}
	if rest.Len() != 0 {
		return false
	}
	if list.Len()%2 != 0 {
		return false
	}

	lc := wire.NewCursor(list)
	for lc.Len() > 0 {
		v, next, err := lc.ReadU16BE()
		if err != nil {
			return false
		}
		lc = next
		if major := byte(v >> 8); major == 3 {
			info.SupportedVersions |= versionFromMinor(byte(v))
		}
	}
	return true
}

// decodeALPN reads the ALPN extension's list of 1-byte-prefixed protocol
// names, classifying each into the ApplicationProtocolSet bitset.
// Malformed entries are skipped silently rather than failing the parse:
// unlike server_name and supported_versions, the teacher's source treats
// ALPN purely as a best-effort classification aid.
func decodeALPN(info *FrameInfo, body wire.View) {
	c := wire.NewCursor(body)
	list, _, err := c.TakeOpaque2()
	if err != nil {
		return
	}

	lc := wire.NewCursor(list)
	for lc.Len() > 0 {
		name, next, err := lc.TakeOpaque1()
		if err != nil {
			return
		}
		lc = next

		switch string(name.Bytes()) {
		case "http/1.1":
			info.ApplicationProtocols |= AppProtoHTTP1
		case "h2":
			info.ApplicationProtocols |= AppProtoHTTP2
		default:
			info.ApplicationProtocols |= AppProtoOther
		}
	}
}
