package audiosrc

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
)

// liveRingSize is the number of sample chunks the lock-free ring buffer
// holds, adapted from agalue-sherpa-voice-assistant's Capturer
// (internal/audio/capture.go) -- enough headroom at typical malgo period
// sizes that the capture callback never blocks on a full consumer.
const liveRingSize = 128

// liveChunkCap is the maximum samples held per ring slot.
const liveChunkCap = 4096

type liveChunk struct {
	samples []int16
	len     int
}

// liveRing is a lock-free single-producer single-consumer ring buffer,
// adapted unchanged in structure from ringBuffer in
// agalue-sherpa-voice-assistant/internal/audio/capture.go, but holding
// int16 PCM directly rather than float32 (spec.md §3 is defined in terms
// of i16 samples throughout).
type liveRing struct {
	chunks    [liveRingSize]liveChunk
	head      atomic.Uint64
	tail      atomic.Uint64
	dropCount atomic.Uint64
}

func newLiveRing() *liveRing {
	r := &liveRing{}
	for i := range r.chunks {
		r.chunks[i].samples = make([]int16, liveChunkCap)
	}
	return r
}

func (r *liveRing) push(samples []int16) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= liveRingSize {
		r.dropCount.Add(1)
		return false
	}
	slot := &r.chunks[head%liveRingSize]
	slot.len = copy(slot.samples, samples)
	r.head.Add(1)
	return true
}

func (r *liveRing) pop() []int16 {
	head := r.head.Load()
	tail := r.tail.Load()
	if head == tail {
		return nil
	}
	slot := &r.chunks[tail%liveRingSize]
	samples := slot.samples[:slot.len]
	r.tail.Add(1)
	return samples
}

// LiveSource captures mono signed-16-bit PCM from the default input
// device via github.com/gen2brain/malgo, decoupling the audio callback
// from the pipeline consumer with a lock-free ring buffer (adapted from
// agalue-sherpa-voice-assistant/internal/audio/capture.go's Capturer).
type LiveSource struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate uint32
	ring       *liveRing
	pending    []int16
	closed     atomic.Bool
}

// NewLiveSource opens the default capture device at sampleRate, mono,
// signed 16-bit PCM.
func NewLiveSource(sampleRate int) (*LiveSource, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("audiosrc: initializing audio context: %w", err)
	}

	s := &LiveSource{
		ctx:        ctx,
		sampleRate: uint32(sampleRate),
		ring:       newLiveRing(),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = s.sampleRate
	deviceConfig.PeriodSizeInMilliseconds = 32

	onRecvFrames := func(_, input []byte, _ uint32) {
		if s.closed.Load() {
			return
		}
		n := len(input) / 2
		samples := make([]int16, n)
		for i := 0; i < n; i++ {
			samples[i] = int16(uint16(input[2*i]) | uint16(input[2*i+1])<<8)
		}
		s.ring.push(samples)
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecvFrames})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("audiosrc: initializing capture device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("audiosrc: starting capture device: %w", err)
	}
	s.device = device

	return s, nil
}

// Read blocks until at least one sample is available, then fills buf
// from the ring buffer (spilling any excess into pending for the next
// call).
func (s *LiveSource) Read(buf []int16) (int, error) {
	if s.closed.Load() {
		return 0, errors.New("audiosrc: live source closed")
	}

	for len(s.pending) == 0 {
		if s.closed.Load() {
			return 0, errors.New("audiosrc: live source closed")
		}
		if chunk := s.ring.pop(); chunk != nil {
			s.pending = append(s.pending, chunk...)
			break
		}
		time.Sleep(time.Millisecond)
	}

	n := copy(buf, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Close stops capture and releases the device and context.
func (s *LiveSource) Close() error {
	s.closed.Store(true)
	if s.device != nil {
		s.device.Stop()
		s.device.Uninit()
	}
	if s.ctx != nil {
		s.ctx.Uninit()
		s.ctx.Free()
	}
	return nil
}
