package internal

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/malgo"
)

// Audio format shared with the remote service: 16-bit little-endian PCM,
// mono.
const (
	SampleRate = 24000
	Channels   = 1
)

// AudioSender accepts outbound raw audio frames. Satisfied by Channel.
type AudioSender interface {
	SendAudio(frame []byte) error
}

// AudioBridge couples microphone capture and speaker playback to a realtime
// session. Start blocks until the context ends, Stop is called, or a device
// fails. Stop is idempotent and safe before Start.
type AudioBridge interface {
	Start(ctx context.Context, out AudioSender, playback *FrameQueue, allowInterrupt bool) error
	Stop() error
}

// DeviceInfo describes an audio device for the devices/doctor commands.
type DeviceInfo struct {
	Name      string
	IsCapture bool
	IsDefault bool
}

// deviceBridge drives real capture and playback hardware through malgo and
// oto.
type deviceBridge struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewDeviceBridge returns an AudioBridge backed by the default capture and
// playback devices.
func NewDeviceBridge() AudioBridge {
	return &deviceBridge{}
}

func (b *deviceBridge) Start(ctx context.Context, out AudioSender, playback *FrameQueue, allowInterrupt bool) error {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.mu.Unlock()
	defer cancel()

	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return &AudioError{Op: "init", Err: err}
	}
	defer func() {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
	}()

	// Speaker side: oto player draining the playback queue.
	otoCtx, ready, err := oto.NewContext(playbackContextOptions())
	if err != nil {
		return &AudioError{Op: "init", Err: err}
	}
	<-ready

	player := otoCtx.NewPlayer(&queueReader{ctx: ctx, queue: playback})
	player.Play()
	defer func() { _ = player.Close() }()

	// Microphone side. The malgo data callback runs on an audio-realtime
	// thread, so frames are handed to a sender goroutine through a buffered
	// channel instead of doing network writes in the callback.
	captureCh := make(chan []byte, 64)
	errCh := make(chan error, 1)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = Channels
	deviceConfig.SampleRate = SampleRate
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			if captureMuted(allowInterrupt, playback) {
				return
			}
			frame := make([]byte, len(input))
			copy(frame, input)
			select {
			case captureCh <- frame:
			default:
				LogDebug("Capture queue full, dropping frame")
			}
		},
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, callbacks)
	if err != nil {
		return &AudioError{Op: "capture", Err: err}
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return &AudioError{Op: "capture", Err: err}
	}
	defer func() { _ = device.Stop() }()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case frame := <-captureCh:
				if err := out.SendAudio(frame); err != nil {
					select {
					case errCh <- err:
					default:
					}
					return
				}
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return &AudioError{Op: "capture", Err: err}
	}
}

func (b *deviceBridge) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	return nil
}

// playbackContextOptions configures the oto playback context. The 100ms
// buffer keeps latency low without glitching.
func playbackContextOptions() *oto.NewContextOptions {
	return &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	}
}

// captureMuted reports whether captured audio should be dropped. In
// walkie-talkie mode the microphone stays muted while the assistant is
// speaking, so the speaker output cannot feed back into the capture path.
func captureMuted(allowInterrupt bool, playback *FrameQueue) bool {
	return !allowInterrupt && playback.Pending() > 0
}

// queueReader adapts a FrameQueue to the io.Reader oto consumes. It blocks
// until a frame is available and reports EOF once the bridge context ends.
type queueReader struct {
	ctx      context.Context
	queue    *FrameQueue
	leftover []byte
}

func (r *queueReader) Read(p []byte) (int, error) {
	if len(r.leftover) == 0 {
		frame := r.queue.Pop(r.ctx)
		if frame == nil {
			return 0, io.EOF
		}
		r.leftover = frame
	}
	n := copy(p, r.leftover)
	r.leftover = r.leftover[n:]
	return n, nil
}

// ListDevices enumerates capture and playback devices.
func ListDevices() ([]DeviceInfo, error) {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, &AudioError{Op: "init", Err: err}
	}
	defer func() {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
	}()

	var devices []DeviceInfo
	for _, kind := range []malgo.DeviceType{malgo.Capture, malgo.Playback} {
		infos, err := malgoCtx.Devices(kind)
		if err != nil {
			return nil, &AudioError{Op: "init", Err: fmt.Errorf("enumerate devices: %w", err)}
		}
		for _, info := range infos {
			devices = append(devices, DeviceInfo{
				Name:      info.Name(),
				IsCapture: kind == malgo.Capture,
				IsDefault: info.IsDefault != 0,
			})
		}
	}
	return devices, nil
}
