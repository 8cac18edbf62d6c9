// ABOUTME: Malgo-based microphone capture
// ABOUTME: Opens the default capture device as float32 mono
package capture

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/harperreed/voicecart/pkg/audio"
)

// Malgo captures from the default input device
type Malgo struct {
	sampleRate  int
	blockFrames int

	malgoCtx *malgo.AllocatedContext
	device   *malgo.Device
	mu       sync.Mutex
}

// NewMalgo creates a capture source. blockFrames sets the device period;
// zero leaves it to the backend.
func NewMalgo(sampleRate, blockFrames int) *Malgo {
	return &Malgo{
		sampleRate:  sampleRate,
		blockFrames: blockFrames,
	}
}

// Start opens and starts the capture device
func (m *Malgo) Start(onFrame func(audio.Frame)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		return fmt.Errorf("capture already started")
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = audio.Channels
	deviceConfig.SampleRate = uint32(m.sampleRate)
	if m.blockFrames > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(m.blockFrames)
	}

	sampleRate := m.sampleRate
	onSamples := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		samples := make([]float32, len(pInputSamples)/4)
		for i := range samples {
			samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(pInputSamples[i*4:]))
		}
		onFrame(audio.Frame{
			Samples:    samples,
			SampleRate: sampleRate,
			Channels:   audio.Channels,
		})
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	m.malgoCtx = ctx
	m.device = device

	log.Printf("Audio capture started: %dHz mono (malgo/F32)", m.sampleRate)
	return nil
}

// Stop halts capture and releases the device
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return nil
	}

	if err := m.device.Stop(); err != nil {
		log.Printf("Warning: capture device stop error: %v", err)
	}
	m.device.Uninit()
	m.device = nil

	if err := m.malgoCtx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	m.malgoCtx.Free()
	m.malgoCtx = nil

	log.Printf("Audio capture stopped")
	return nil
}
