package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/nullbyte80/famicore/nes"
)

// pollKeys reads the current keyboard state into a ControllerStates,
// WASD for directions, J/H for A/B, G/F for start/select. Joy2 is left
// at its zero value: this host only drives one physical controller.
//
// Adapted from jyane-jnes/ui/utils.go's getKeys, which returned a
// fixed-order [8]bool keyed by the teacher's own nes.ButtonX constants;
// this port's ControllerPort instead takes a structured ButtonState.
func pollKeys(window *glfw.Window) nes.ControllerStates {
	pressed := func(key glfw.Key) bool { return window.GetKey(key) == glfw.Press }
	return nes.ControllerStates{
		Joy1: nes.ButtonState{
			Right:  pressed(glfw.KeyD),
			Left:   pressed(glfw.KeyA),
			Down:   pressed(glfw.KeyS),
			Up:     pressed(glfw.KeyW),
			Start:  pressed(glfw.KeyG),
			Select: pressed(glfw.KeyF),
			B:      pressed(glfw.KeyH),
			A:      pressed(glfw.KeyJ),
		},
	}
}
