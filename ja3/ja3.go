// Package ja3 computes JA3 and JA3S TLS fingerprints from the raw bytes of
// a ClientHello or ServerHello record, using tlsframe to do the framing
// and extension-walking work and reading only the handful of additional
// fields (full extension-type order, supported groups, EC point formats,
// the ServerHello's single negotiated cipher suite) that tlsframe's
// FrameInfo deliberately doesn't carry because they're outside the core
// parser's data model.
package ja3

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"

	"github.com/pkg/errors"

	"github.com/mel2oo/tlssniff/tlsframe"
	"github.com/mel2oo/tlssniff/wire"
)

const (
	dashByte  = byte('-')
	commaByte = byte(',')
)

// Digest is a JA3/JA3S fingerprint, the hex-encoded MD5 of the formatted
// field string.
type Digest string

// ClientHash computes the JA3 fingerprint of a complete ClientHello
// record: SSLVersion,Cipher,SSLExtension,EllipticCurve,EllipticCurvePointFormat.
func ClientHash(frame []byte) (Digest, error) {
	var extTypes []uint16
	var curves []uint16
	var points []uint8

	info, complete := tlsframe.TryParse(frame, tlsframe.OptionCipherSuites, func(_ *tlsframe.FrameInfo, extType tlsframe.ExtensionType, body []byte) {
		extTypes = append(extTypes, uint16(extType))
		switch extType {
		case tlsframe.ExtensionSupportedGroups:
			curves = decodeU16List(body)
		case tlsframe.ExtensionECPointFormats:
			points = decodeU8List(body)
		}
	})
	if !complete || info.HandshakeType != tlsframe.HandshakeClientHello {
		return "", errors.New("ja3: not a complete ClientHello")
	}

	version := recordVersionNumber(frame)

	var b []byte
	b = strconv.AppendUint(b, uint64(version), 10)
	b = append(b, commaByte)
	b = appendDashList(b, info.CipherSuites)
	b = appendDashList(b, extTypes)
	b = appendDashList(b, curves)
	b = appendDashListU8(b, points)
	// appendDashListU8 leaves a trailing dash if the list was non-empty,
	// matching the teacher's "no trailing comma after the last field".
	if len(b) > 0 && b[len(b)-1] == dashByte {
		b = b[:len(b)-1]
	}

	return digest(b), nil
}

// ServerHash computes the JA3S fingerprint of a complete ServerHello
// record: SSLVersion,Cipher,SSLExtension.
func ServerHash(frame []byte) (Digest, error) {
	var extTypes []uint16

	info, complete := tlsframe.TryParse(frame, tlsframe.OptionAll, func(_ *tlsframe.FrameInfo, extType tlsframe.ExtensionType, _ []byte) {
		extTypes = append(extTypes, uint16(extType))
	})
	if !complete || info.HandshakeType != tlsframe.HandshakeServerHello {
		return "", errors.New("ja3: not a complete ServerHello")
	}

	cipherSuite, ok := serverCipherSuite(frame)
	if !ok {
		return "", errors.New("ja3: could not read the negotiated cipher suite")
	}

	version := recordVersionNumber(frame)

	var b []byte
	b = strconv.AppendUint(b, uint64(version), 10)
	b = append(b, commaByte)
	b = strconv.AppendUint(b, uint64(cipherSuite), 10)
	b = append(b, commaByte)
	b = appendDashList(b, extTypes)
	if len(b) > 0 && b[len(b)-1] == dashByte {
		b = b[:len(b)-1]
	}

	return digest(b), nil
}

func digest(b []byte) Digest {
	sum := md5.Sum(b)
	return Digest(hex.EncodeToString(sum[:]))
}

func recordVersionNumber(frame []byte) uint16 {
	return uint16(frame[1])<<8 | uint16(frame[2])
}

func appendDashList(b []byte, values []uint16) []byte {
	if len(values) == 0 {
		return append(b, commaByte)
	}
	for _, v := range values {
		b = strconv.AppendUint(b, uint64(v), 10)
		b = append(b, dashByte)
	}
	b[len(b)-1] = commaByte
	return b
}

func appendDashListU8(b []byte, values []uint8) []byte {
	if len(values) == 0 {
		return b
	}
	for _, v := range values {
		b = strconv.AppendUint(b, uint64(v), 10)
		b = append(b, dashByte)
	}
	return b
}

func decodeU16List(body []byte) []uint16 {
	c := wire.NewCursor(wire.New(body))
	list, _, err := c.TakeOpaque2()
	if err != nil {
		return nil
	}
	lc := wire.NewCursor(list)
	var out []uint16
	for lc.Len() >= 2 {
		v, next, err := lc.ReadU16BE()
		if err != nil {
			break
		}
		lc = next
		out = append(out, v)
	}
	return out
}

func decodeU8List(body []byte) []uint8 {
	c := wire.NewCursor(wire.New(body))
	list, _, err := c.TakeOpaque1()
	if err != nil {
		return nil
	}
	lc := wire.NewCursor(list)
	var out []uint8
	for lc.Len() >= 1 {
		v, next, err := lc.ReadU8()
		if err != nil {
			break
		}
		lc = next
		out = append(out, v)
	}
	return out
}

// serverCipherSuite re-reads the ServerHello's own 2-byte negotiated
// cipher_suite field, a value tlsframe.FrameInfo deliberately doesn't
// carry (the core data model only accumulates a cipher *list*, which only
// ClientHello has).
func serverCipherSuite(frame []byte) (uint16, bool) {
	if len(frame) < 5 {
		return 0, false
	}
	handshake := frame[5:]
	c := wire.NewCursor(wire.New(handshake))
	_, c, err := c.ReadU8() // msg_type
	if err != nil {
		return 0, false
	}
	_, c, err = c.ReadU24BE() // hello length
	if err != nil {
		return 0, false
	}
	c, err = c.Skip(2) // hello version
	if err != nil {
		return 0, false
	}
	c, err = c.Skip(32) // random
	if err != nil {
		return 0, false
	}
	_, c, err = c.TakeOpaque1() // session_id
	if err != nil {
		return 0, false
	}
	cipherSuite, _, err := c.ReadU16BE()
	if err != nil {
		return 0, false
	}
	return cipherSuite, true
}
