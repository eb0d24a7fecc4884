package audiosrc

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// FileSource decodes an entire mono 16kHz .wav file into memory and
// serves it through Read, grounded on emer-auditory's sound.Wave
// (sound/sound.go), which uses the same go-audio/wav decoder.
// Resampling is explicitly out of scope (spec.md §1 non-goals): a file
// at the wrong rate or channel count is a config error, not resampled.
type FileSource struct {
	file    *os.File
	samples []int16
	pos     int
}

// NewFileSource opens and fully decodes path, validating it is mono PCM
// at sampleRate.
func NewFileSource(path string, sampleRate int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiosrc: opening %s: %w", path, err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("audiosrc: %s is not a valid WAV file", path)
	}
	decoder.ReadInfo()
	if int(decoder.NumChans) != 1 {
		f.Close()
		return nil, fmt.Errorf("audiosrc: %s has %d channels, only mono is supported", path, decoder.NumChans)
	}
	if int(decoder.SampleRate) != sampleRate {
		f.Close()
		return nil, fmt.Errorf("audiosrc: %s is %d Hz, configured for %d Hz -- resampling is out of scope", path, decoder.SampleRate, sampleRate)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audiosrc: decoding %s: %w", path, err)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}

	return &FileSource{file: f, samples: samples}, nil
}

// Read fills buf from the decoded sample buffer, returning io.EOF once
// every sample has been delivered.
func (s *FileSource) Read(buf []int16) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(buf, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

// Close releases the underlying file handle.
func (s *FileSource) Close() error {
	return s.file.Close()
}
