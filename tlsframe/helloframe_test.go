package tlsframe

import "encoding/binary"

// The helpers in this file build minimal, well-formed ClientHello and
// ServerHello records for use in table-driven tests. They deliberately
// mirror the TLS wire layout rather than reusing any parser code, so a test
// failure can't be masked by a shared bug.

type helloBuilder struct {
	recordVersion [2]byte
	helloVersion  [2]byte
	cipherSuites  []uint16
	serverName    string
	alpn          []string
	supportedVers []uint16
}

func (b helloBuilder) extensions() []byte {
	var ext []byte
	if b.serverName != "" {
		hostName := []byte(b.serverName)
		var listEntry []byte
		listEntry = append(listEntry, 0x00) // name_type = host_name
		listEntry = append(listEntry, u16(len(hostName))...)
		listEntry = append(listEntry, hostName...)
		var extBody []byte
		extBody = append(extBody, u16(len(listEntry))...)
		extBody = append(extBody, listEntry...)
		ext = append(ext, u16(0)...) // extension type: server_name
		ext = append(ext, u16(len(extBody))...)
		ext = append(ext, extBody...)
	}
	if len(b.alpn) > 0 {
		var protoList []byte
		for _, p := range b.alpn {
			protoList = append(protoList, byte(len(p)))
			protoList = append(protoList, p...)
		}
		var extBody []byte
		extBody = append(extBody, u16(len(protoList))...)
		extBody = append(extBody, protoList...)
		ext = append(ext, u16(16)...) // extension type: ALPN
		ext = append(ext, u16(len(extBody))...)
		ext = append(ext, extBody...)
	}
	if len(b.supportedVers) > 0 {
		var list []byte
		for _, v := range b.supportedVers {
			list = append(list, u16(int(v))...)
		}
		var extBody []byte
		extBody = append(extBody, byte(len(list)))
		extBody = append(extBody, list...)
		ext = append(ext, u16(0x2b)...) // extension type: supported_versions
		ext = append(ext, u16(len(extBody))...)
		ext = append(ext, extBody...)
	}
	return ext
}

// sessionIDPadding is a fixed, non-empty session_id used by both builders
// so that even a minimal hello (no cipher suites beyond one, no
// extensions) still clears the 44-byte hello-body floor.
var sessionIDPadding = []byte{1, 2, 3, 4, 5, 6, 7, 8}

func (b helloBuilder) clientHelloRecord() []byte {
	var body []byte
	body = append(body, b.helloVersion[:]...)
	body = append(body, make([]byte, 32)...) // random
	body = append(body, byte(len(sessionIDPadding)))
	body = append(body, sessionIDPadding...)

	var ciphers []byte
	for _, cs := range b.cipherSuites {
		ciphers = append(ciphers, u16(int(cs))...)
	}
	body = append(body, u16(len(ciphers))...)
	body = append(body, ciphers...)

	body = append(body, 0x01, 0x00) // one compression method: null

	ext := b.extensions()
	if ext != nil {
		body = append(body, u16(len(ext))...)
		body = append(body, ext...)
	}

	var handshake []byte
	handshake = append(handshake, byte(HandshakeClientHello))
	handshake = append(handshake, u24(len(body))...)
	handshake = append(handshake, body...)

	var record []byte
	record = append(record, byte(ContentTypeHandshake))
	record = append(record, b.recordVersion[:]...)
	record = append(record, u16(len(handshake))...)
	record = append(record, handshake...)
	return record
}

func (b helloBuilder) serverHelloRecord() []byte {
	var body []byte
	body = append(body, b.helloVersion[:]...)
	body = append(body, make([]byte, 32)...) // random
	body = append(body, byte(len(sessionIDPadding)))
	body = append(body, sessionIDPadding...)
	cs := uint16(0x1301)
	if len(b.cipherSuites) > 0 {
		cs = b.cipherSuites[0]
	}
	body = append(body, u16(int(cs))...) // negotiated cipher_suite
	body = append(body, 0x00)            // compression_method: null

	ext := b.extensions()
	if ext != nil {
		body = append(body, u16(len(ext))...)
		body = append(body, ext...)
	}

	var handshake []byte
	handshake = append(handshake, byte(HandshakeServerHello))
	handshake = append(handshake, u24(len(body))...)
	handshake = append(handshake, body...)

	var record []byte
	record = append(record, byte(ContentTypeHandshake))
	record = append(record, b.recordVersion[:]...)
	record = append(record, u16(len(handshake))...)
	record = append(record, handshake...)
	return record
}

func u16(v int) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

func u24(v int) []byte {
	return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
}
