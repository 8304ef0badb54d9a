// Package rle implements the run-length codec used for delta payloads.
//
// The scheme is a PackBits variant: a control byte 0..127 introduces a
// literal run of control+1 verbatim bytes; a control byte interpreted
// as a negative int8 n (other than -128) introduces 1-n repetitions of
// the single byte that follows; -128 is a no-op and consumes nothing.
//
// Unlike classic PackBits, runs of just two identical bytes are already
// emitted as repeats, and a literal run is cut short as soon as the
// next three input bytes are mutually equal. Both ends of the link
// depend on these exact tie-breaks.
package rle

// NoOp is the reserved control byte skipped by the decoder.
const NoOp byte = 0x80

// maxRun caps both literal and repeat runs.
const maxRun = 128

// Encode compresses src with a greedy left-to-right scan.
func Encode(src []byte) []byte {
	dst := make([]byte, 0, len(src)/2+8)

	for i := 0; i < len(src); {
		run := runLength(src, i)

		if run >= 2 {
			// Repeat run: control byte is the negative int8 1-run.
			dst = append(dst, byte(int8(1-run)), src[i])
			i += run
			continue
		}

		// Literal run: extend until an upcoming repeat of three or the cap.
		start := i
		for i < len(src) && i-start < maxRun {
			if i+2 < len(src) && src[i] == src[i+1] && src[i] == src[i+2] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start-1))
		dst = append(dst, src[start:i]...)
	}

	return dst
}

// runLength measures the run of identical bytes starting at i, capped
// at maxRun.
func runLength(src []byte, i int) int {
	n := 1
	for i+n < len(src) && src[i+n] == src[i] && n < maxRun {
		n++
	}
	return n
}

// Decode decompresses src into a buffer of at most max bytes.
//
// Decoding stops as soon as a segment would overrun either the output
// cap or the input, returning whatever was produced up to that point.
// Callers must compare the result length against the size they expect
// before trusting it.
func Decode(src []byte, max int) []byte {
	dst := make([]byte, 0, max)

	for i := 0; i < len(src) && len(dst) < max; {
		n := int8(src[i])
		i++

		if byte(n) == NoOp {
			continue
		}

		if n >= 0 {
			count := int(n) + 1
			if len(dst)+count > max || i+count > len(src) {
				break
			}
			dst = append(dst, src[i:i+count]...)
			i += count
			continue
		}

		count := 1 - int(n)
		if len(dst)+count > max || i >= len(src) {
			break
		}
		b := src[i]
		i++
		for j := 0; j < count; j++ {
			dst = append(dst, b)
		}
	}

	return dst
}
