package conv

// U32Hex writes 8-digit uppercase hex without 0x, zero-padded.
func U32Hex(buf []byte, n uint32) []byte {
	if len(buf) < 8 {
		return buf[:0]
	}
	const hexd = "0123456789ABCDEF"
	i := len(buf)
	for j := 0; j < 8; j++ {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// Hex32 returns n as "0x" followed by 8 uppercase hex digits.
func Hex32(n uint32) string {
	var b [10]byte
	b[0], b[1] = '0', 'x'
	U32Hex(b[2:], n)
	return string(b[:])
}
