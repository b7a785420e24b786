package epic

// MaxStringLen is the capacity, terminator included, of strings passed to
// the firmware.
const MaxStringLen = 1024

// NullTerminated returns text as a C string of at most MaxStringLen bytes.
func NullTerminated(text string) []byte {
	return NullTerminatedN(text, MaxStringLen)
}

// NullTerminatedN returns text as a C string of at most capacity bytes.
//
// Text shorter than capacity that already ends in NUL is used as is.
// Anything else is cut to capacity-1 bytes and gets one NUL appended.
// The cut is byte based and may split a multi-byte UTF-8 sequence.
func NullTerminatedN(text string, capacity int) []byte {
	if capacity < 1 {
		capacity = 1
	}
	if len(text) < capacity && len(text) > 0 && text[len(text)-1] == 0 {
		return []byte(text)
	}
	n := len(text)
	if n > capacity-1 {
		n = capacity - 1
	}
	buf := make([]byte, n+1)
	copy(buf, text[:n])
	return buf
}
