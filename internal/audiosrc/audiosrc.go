// Package audiosrc provides the two external PCM sources AudioId reads
// from: a decoded .wav file, and live capture from the default input
// device (spec.md §6: "16 kHz, mono, signed 16-bit PCM").
package audiosrc

import "io"

// Source streams mono 16-bit signed PCM samples at a fixed sample rate.
// Read fills buf with up to len(buf) samples, returning how many were
// read; it returns (0, io.EOF) once the stream is exhausted (file mode
// only -- live mode blocks until Close).
type Source interface {
	Read(buf []int16) (int, error)
	Close() error
}

var _ io.Closer = Source(nil)
