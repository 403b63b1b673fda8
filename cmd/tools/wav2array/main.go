// Command wav2array converts a PCM WAV recording into the flat float64
// array format consumed by the ArrayStream replay source. Array replay uses
// the serial protocol's chunk sizing, so signals recorded as audio need
// converting before they can drive an array-backed session.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"math"
	"os"

	"github.com/neuroarcade/spikestream/internal/stream"
)

var (
	in  = flag.String("in", "", "Input WAV file (PCM 16-bit mono)")
	out = flag.String("out", "", "Output array file")
)

func main() {
	flag.Parse()
	if *in == "" || *out == "" {
		log.Fatal("both -in and -out are required")
	}

	samples, sampleRate, err := stream.DecodeWAV(*in)
	if err != nil {
		log.Fatalf("failed to decode %s: %v", *in, err)
	}
	log.Printf("decoded %d samples at %d Hz", len(samples), sampleRate)

	raw := make([]byte, 8*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", *out, err)
	}
	log.Printf("wrote %s", *out)
}
