package tlsframe

import "github.com/mel2oo/tlssniff/wire"

// parseClientHelloBody parses a ClientHello body, positioned just after
// the 2-byte client_version field (already consumed by parseHello).
func parseClientHelloBody(info *FrameInfo, opts Options, c wire.Cursor, cb ExtensionCallback) bool {
	c, err := c.Skip(32) // random
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}

	_, c, err = c.TakeOpaque1() // session_id, not carried in FrameInfo
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}

	cipherBody, c, err := c.TakeOpaque2() // cipher_suites
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}
	if opts.Has(OptionCipherSuites) {
		if suites, ok := decodeCipherSuites(cipherBody); ok {
			info.CipherSuites = suites
		}
	}

	_, c, err = c.TakeOpaque1() // compression_methods, discarded
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}

	if c.Len() == 0 {
		// No extensions area at all; the hello is still well-formed.
		return true
	}

	extLen, c, err := c.ReadU16BE()
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}
	if int64(extLen) != c.Len() {
		info.escalate(StatusInvalidFrame)
		return false
	}

	return walkExtensions(info, opts, c.Remaining(), cb)
}

// decodeCipherSuites splits body into a list of 2-byte cipher suite
// identifiers. Returns false if body's length isn't a multiple of 2.
func decodeCipherSuites(body wire.View) ([]uint16, bool) {
	if body.Len()%2 != 0 {
		return nil, false
	}
	suites := make([]uint16, 0, body.Len()/2)
	c := wire.NewCursor(body)
	for c.Len() > 0 {
		v, next, err := c.ReadU16BE()
		if err != nil {
			return nil, false
		}
		c = next
		suites = append(suites, v)
	}
	return suites, true
}
