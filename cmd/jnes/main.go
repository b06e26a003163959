// Command jnes is a demonstration host for the famicore emulator core:
// it parses an iNES ROM, opens a glfw window, and drives nes.System one
// frame at a time, blitting the core's frame buffer through a textured
// quad and draining its audio ring buffer into a portaudio stream.
//
// Adapted from jyane-jnes/main.go and jyane-jnes/ui, split so that ROM
// loading, rendering, audio, and input each live in their own file the
// way the teacher's ui/ package was already divided.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"github.com/nullbyte80/famicore/nes"
)

var (
	path       = flag.String("path", "./rom/sample1.nes", "path to NES ROM file")
	width      = flag.Int("width", 256*3, "window width")
	height     = flag.Int("height", 240*3, "window height")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	frameLimit = flag.Int("frames", 0, "stop after this many frames (0 = run until window closes)")
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Fatalln("failed to create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Fatalln("failed to start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		glog.Fatalln("failed to read ROM: ", err)
	}
	cartridge, err := loadCartridge(data)
	if err != nil {
		glog.Fatalln("failed to load cartridge: ", err)
	}

	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("famicore: fatal core error: %v", r)
			os.Exit(1)
		}
	}()

	system := nes.NewSystem(cartridge)

	if err := glfw.Init(); err != nil {
		glog.Fatalln(err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(*width, *height, "famicore", nil, nil)
	if err != nil {
		glog.Fatalln(err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glog.Fatalln(err)
	}

	program, texture, err := newProgram()
	if err != nil {
		glog.Fatalln(err)
	}
	gl.UseProgram(program)

	audio := newAudioOutput()
	if err := audio.start(); err != nil {
		glog.Fatalln(err)
	}
	defer audio.terminate()

	system.SetControllerCallback(func() nes.ControllerStates {
		return pollKeys(window)
	})

	glog.Infof("famicore: running %s", *path)
	for frame := 0; *frameLimit == 0 || frame < *frameLimit; frame++ {
		system.RunSingleFrame()

		rgba := rgbaFrame(system.FrameBuffer())
		updateTexture(texture, rgba)
		window.SwapBuffers()
		glfw.PollEvents()

		audio.feed(system.DrainSamples())

		if window.ShouldClose() {
			break
		}
	}
	fmt.Println("famicore: exiting")
}
