package wire

import (
	"bytes"
	"testing"
)

func split(data []byte, at int) View {
	var v View
	v.Append(New(data[:at]))
	v.Append(New(data[at:]))
	return v
}

func TestAppendAndBytes(t *testing.T) {
	var v View
	v.Append(New([]byte("hello ")))
	v.Append(New([]byte("prince!")))
	if got := string(v.Bytes()); got != "hello prince!" {
		t.Errorf(`expected "hello prince!" got %q`, got)
	}
	if v.Len() != int64(len("hello prince!")) {
		t.Errorf("expected length %d, got %d", len("hello prince!"), v.Len())
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	v1 := New([]byte("hello"))
	v2 := v1.DeepCopy()
	v2.Append(New([]byte(" prince!")))
	v1.Append(New([]byte(" pineapple!")))

	if got := string(v1.Bytes()); got != "hello pineapple!" {
		t.Errorf(`expected "hello pineapple!" got %q`, got)
	}
	if got := string(v2.Bytes()); got != "hello prince!" {
		t.Errorf(`expected "hello prince!" got %q`, got)
	}
}

func TestGetByteAcrossChunks(t *testing.T) {
	v := split([]byte("hello prince!"), 5)
	for i, want := range []byte("hello prince!") {
		if got := v.GetByte(int64(i)); got != want {
			t.Errorf("GetByte(%d) = %q, want %q", i, got, want)
		}
	}
	if got := v.GetByte(-1); got != 0 {
		t.Errorf("GetByte(-1) = %d, want 0", got)
	}
	if got := v.GetByte(100); got != 0 {
		t.Errorf("GetByte(100) = %d, want 0", got)
	}
}

func TestGetUint16AndUint24(t *testing.T) {
	v := split([]byte{0x03, 0x04, 0x00, 0x2b, 0xff}, 2)
	if got := v.GetUint16(0); got != 0x0304 {
		t.Errorf("GetUint16(0) = %#04x, want 0x0304", got)
	}
	if got, want := v.GetUint24(1), uint32(0x04)<<16|uint32(0x00)<<8|uint32(0x2b); got != want {
		t.Errorf("GetUint24(1) = %#06x, want %#06x", got, want)
	}
	if got := v.GetUint16(10); got != 0 {
		t.Errorf("GetUint16(out of range) = %d, want 0", got)
	}
}

func TestSubViewAcrossChunks(t *testing.T) {
	v := split([]byte("0123456789"), 4)
	sub := v.SubView(2, 7)
	if got := string(sub.Bytes()); got != "23456" {
		t.Errorf(`SubView(2,7) = %q, want "23456"`, got)
	}
	if got := v.SubView(5, 2).Len(); got != 0 {
		t.Errorf("SubView with start>end should be empty, got len %d", got)
	}
}

func TestCursorReadU8(t *testing.T) {
	c := NewCursor(New([]byte{0x01, 0x02}))
	b, c, err := c.ReadU8()
	if err != nil || b != 0x01 {
		t.Fatalf("ReadU8 = (%d, %v), want (1, nil)", b, err)
	}
	b, c, err = c.ReadU8()
	if err != nil || b != 0x02 {
		t.Fatalf("ReadU8 = (%d, %v), want (2, nil)", b, err)
	}
	if _, _, err := c.ReadU8(); err != ErrTooShort {
		t.Fatalf("ReadU8 past end = %v, want ErrTooShort", err)
	}
}

func TestCursorReadU16BEAndU24BE(t *testing.T) {
	c := NewCursor(split([]byte{0x03, 0x04, 0x00, 0x2b, 0xff}, 2))

	v16, c, err := c.ReadU16BE()
	if err != nil || v16 != 0x0304 {
		t.Fatalf("ReadU16BE = (%#04x, %v), want (0x0304, nil)", v16, err)
	}

	v24, _, err := c.ReadU24BE()
	if err != nil || v24 != 0x002bff {
		t.Fatalf("ReadU24BE = (%#06x, %v), want (0x002bff, nil)", v24, err)
	}

	short := NewCursor(New([]byte{0x01}))
	if _, _, err := short.ReadU16BE(); err != ErrTooShort {
		t.Errorf("ReadU16BE on 1 byte = %v, want ErrTooShort", err)
	}
	if _, _, err := short.ReadU24BE(); err != ErrTooShort {
		t.Errorf("ReadU24BE on 1 byte = %v, want ErrTooShort", err)
	}
}

func TestCursorTakeOpaque1(t *testing.T) {
	c := NewCursor(New([]byte{0x03, 'a', 'b', 'c', 'd'}))
	body, rest, err := c.TakeOpaque1()
	if err != nil {
		t.Fatalf("TakeOpaque1 error: %v", err)
	}
	if got := string(body.Bytes()); got != "abc" {
		t.Errorf("body = %q, want \"abc\"", got)
	}
	if got := string(rest.Remaining().Bytes()); got != "d" {
		t.Errorf("rest = %q, want \"d\"", got)
	}

	truncated := NewCursor(New([]byte{0x05, 'a', 'b'}))
	if _, _, err := truncated.TakeOpaque1(); err != ErrTooShort {
		t.Errorf("TakeOpaque1 underflow = %v, want ErrTooShort", err)
	}
}

func TestCursorTakeOpaque2(t *testing.T) {
	c := NewCursor(split([]byte{0x00, 0x02, 'h', 'i', '!'}, 2))
	body, rest, err := c.TakeOpaque2()
	if err != nil {
		t.Fatalf("TakeOpaque2 error: %v", err)
	}
	if got := string(body.Bytes()); got != "hi" {
		t.Errorf("body = %q, want \"hi\"", got)
	}
	if got := string(rest.Remaining().Bytes()); got != "!" {
		t.Errorf("rest = %q, want \"!\"", got)
	}
}

func TestCursorSkip(t *testing.T) {
	c := NewCursor(New([]byte("hello world")))
	c, err := c.Skip(6)
	if err != nil {
		t.Fatalf("Skip error: %v", err)
	}
	if got := string(c.Remaining().Bytes()); got != "world" {
		t.Errorf("Remaining = %q, want \"world\"", got)
	}
	if _, err := c.Skip(100); err != ErrTooShort {
		t.Errorf("Skip past end = %v, want ErrTooShort", err)
	}
}

func TestViewBytesRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox")
	v := split(data, 7)
	if !bytes.Equal(v.Bytes(), data) {
		t.Errorf("Bytes() = %q, want %q", v.Bytes(), data)
	}
}
