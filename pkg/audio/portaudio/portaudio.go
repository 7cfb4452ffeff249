// Package portaudio plays PCM through the PortAudio library.
//
// The package uses cgo and needs PortAudio installed where pkg-config can
// find it (portaudio-2.0).
package portaudio

/*
#cgo pkg-config: portaudio-2.0

#include <portaudio.h>
#include <stdlib.h>
#include <string.h>

static PaError pa_open_output(void **stream,
                              const PaStreamParameters *outputParams,
                              double sampleRate,
                              unsigned long framesPerBuffer) {
    return Pa_OpenStream((PaStream**)stream, NULL, outputParams, sampleRate,
                         framesPerBuffer, paClipOff, NULL, NULL);
}

static PaError pa_start_stream(void *stream) {
    return Pa_StartStream((PaStream*)stream);
}

static PaError pa_stop_stream(void *stream) {
    return Pa_StopStream((PaStream*)stream);
}

static PaError pa_close_stream(void *stream) {
    return Pa_CloseStream((PaStream*)stream);
}

static PaError pa_write_stream(void *stream, const void *buffer, unsigned long frames) {
    return Pa_WriteStream((PaStream*)stream, buffer, frames);
}
*/
import "C"

import (
	"errors"
	"sync"
	"unsafe"
)

var (
	// ErrNoDevice is returned when the host has no default output device.
	ErrNoDevice = errors.New("portaudio: no default output device")

	// ErrClosed is returned by writes to a closed stream.
	ErrClosed = errors.New("portaudio: stream closed")
)

var (
	initOnce sync.Once
	initErr  error
)

func paError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return errors.New("portaudio: " + C.GoString(C.Pa_GetErrorText(code)))
}

// Initialize initializes the PortAudio library. It is safe to call more than
// once.
func Initialize() error {
	initOnce.Do(func() {
		initErr = paError(C.Pa_Initialize())
	})
	return initErr
}

// Terminate shuts the PortAudio library down.
func Terminate() error {
	return paError(C.Pa_Terminate())
}

// Device describes an audio output device.
type Device struct {
	Index       int     `json:"index" yaml:"index"`
	Name        string  `json:"name" yaml:"name"`
	Channels    int     `json:"channels" yaml:"channels"`
	SampleRate  float64 `json:"sample_rate" yaml:"sample_rate"`
	LowLatency  float64 `json:"low_latency" yaml:"low_latency"`
	HighLatency float64 `json:"high_latency" yaml:"high_latency"`
	Default     bool    `json:"default" yaml:"default"`
}

// Devices lists devices that can play audio.
func Devices() ([]Device, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	count := int(C.Pa_GetDeviceCount())
	if count < 0 {
		return nil, paError(C.PaError(count))
	}
	def := int(C.Pa_GetDefaultOutputDevice())

	var devices []Device
	for i := range count {
		info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(i))
		if info == nil || info.maxOutputChannels == 0 {
			continue
		}
		devices = append(devices, deviceOf(i, info, i == def))
	}
	return devices, nil
}

// DefaultDevice returns the default output device.
func DefaultDevice() (*Device, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	idx := C.Pa_GetDefaultOutputDevice()
	if idx == C.paNoDevice {
		return nil, ErrNoDevice
	}
	info := C.Pa_GetDeviceInfo(idx)
	if info == nil {
		return nil, ErrNoDevice
	}
	d := deviceOf(int(idx), info, true)
	return &d, nil
}

func deviceOf(idx int, info *C.PaDeviceInfo, def bool) Device {
	return Device{
		Index:       idx,
		Name:        C.GoString(info.name),
		Channels:    int(info.maxOutputChannels),
		SampleRate:  float64(info.defaultSampleRate),
		LowLatency:  float64(info.defaultLowOutputLatency),
		HighLatency: float64(info.defaultHighOutputLatency),
		Default:     def,
	}
}

// stream is an open blocking-write output stream of 16-bit samples.
type stream struct {
	mu       sync.Mutex
	pa       unsafe.Pointer
	buf      unsafe.Pointer
	frames   int
	channels int
	closed   bool
}

func openStream(channels int, sampleRate float64, frames int) (*stream, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	dev := C.Pa_GetDefaultOutputDevice()
	if dev == C.paNoDevice {
		return nil, ErrNoDevice
	}
	info := C.Pa_GetDeviceInfo(dev)
	params := &C.PaStreamParameters{
		device:                    dev,
		channelCount:              C.int(channels),
		sampleFormat:              C.paInt16,
		suggestedLatency:          info.defaultLowOutputLatency,
		hostApiSpecificStreamInfo: nil,
	}

	var pa unsafe.Pointer
	if err := paError(C.pa_open_output(&pa, params, C.double(sampleRate), C.ulong(frames))); err != nil {
		return nil, err
	}
	if err := paError(C.pa_start_stream(pa)); err != nil {
		C.pa_close_stream(pa)
		return nil, err
	}
	return &stream{
		pa:       pa,
		buf:      C.malloc(C.size_t(frames * channels * 2)),
		frames:   frames,
		channels: channels,
	}, nil
}

// write plays whole frames of little-endian 16-bit samples, at most one
// buffer at a time.
func (s *stream) write(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	frames := len(p) / (2 * s.channels)
	if frames == 0 {
		return nil
	}
	C.memcpy(s.buf, unsafe.Pointer(&p[0]), C.size_t(frames*2*s.channels))
	return paError(C.pa_write_stream(s.pa, s.buf, C.ulong(frames)))
}

func (s *stream) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	C.pa_stop_stream(s.pa)
	err := paError(C.pa_close_stream(s.pa))
	C.free(s.buf)
	return err
}
