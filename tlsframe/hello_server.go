package tlsframe

import "github.com/mel2oo/tlssniff/wire"

// parseServerHelloBody parses a ServerHello body, positioned just after
// the 2-byte server_version field (already consumed by parseHello).
func parseServerHelloBody(info *FrameInfo, opts Options, c wire.Cursor, cb ExtensionCallback) bool {
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

	c, err = c.Skip(2) // cipher_suite: a single negotiated suite, not a list
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}
	c, err = c.Skip(1) // compression_method
	if err != nil {
		info.escalate(StatusIncompleteFrame)
		return false
	}

	if c.Len() == 0 {
		// The teacher's parser treats a ServerHello with no extensions area
		// as malformed rather than merely "nothing more to learn"; preserved
		// here (see the Open Question resolution in DESIGN.md).
		info.escalate(StatusInvalidFrame)
		return false
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
