package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/nullbyte80/famicore/nes"
)

// audioOutput drains nes.APU's sample ring buffer through a portaudio
// callback stream.
//
// Adapted from jyane-jnes/ui/audio.go: the teacher's version drove its
// channel from the CPU's Do() loop; here the main loop instead calls
// drain after every completed video frame, matching nes.System.DrainSamples.
type audioOutput struct {
	stream  *portaudio.Stream
	channel chan float32
}

func newAudioOutput() *audioOutput {
	return &audioOutput{channel: make(chan float32, nes.SampleRate)}
}

func (a *audioOutput) start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: failed to initialize portaudio: %w", err)
	}
	cb := func(out []float32) {
		for i := range out {
			select {
			case x := <-a.channel:
				out[i] = x
			default:
				out[i] = 0
			}
		}
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(nes.SampleRate), 0, cb)
	if err != nil {
		return fmt.Errorf("audio: failed to open stream: %w", err)
	}
	a.stream = stream
	if err := stream.Start(); err != nil {
		return fmt.Errorf("audio: failed to start stream: %w", err)
	}
	return nil
}

func (a *audioOutput) feed(samples []float32) {
	for _, s := range samples {
		select {
		case a.channel <- s:
		default:
		}
	}
}

func (a *audioOutput) terminate() {
	if a.stream != nil {
		a.stream.Close()
	}
	portaudio.Terminate()
}
