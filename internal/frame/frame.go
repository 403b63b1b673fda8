// Package frame reconstructs amplitude samples from the SpikerBox two-byte
// serial framing protocol.
//
// A frame is two bytes: a marker byte with the high bit set carrying the
// upper seven bits of a 14-bit amplitude, followed by a byte carrying the
// lower seven. The stream offers no alignment guarantee, so the decoder
// rescans for a marker after every frame and skips anything else.
package frame

// Decode scans raw for two-byte frames and returns the reconstructed
// samples. The first and last byte of the buffer are never treated as a
// frame start. A marker byte with no trailing byte inside the buffer is
// dropped; the loss is bounded by one sample per call.
func Decode(raw []byte) []float64 {
	var samples []float64
	i := 1
	for i < len(raw)-1 {
		if raw[i] > 127 {
			// Marker found: high seven bits here, low seven in the next byte.
			sample := float64(raw[i]&0x7F)*128 + float64(raw[i+1])
			samples = append(samples, sample)
			i++
		}
		i++
	}
	return samples
}
