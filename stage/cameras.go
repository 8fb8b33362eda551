// Package stage holds the scene-side collaborators driven by the grid:
// camera selection (row 1), light groups (row 5) and scene slots (rows 6-8).
package stage

import "go-vjgrid/debug"

// CameraNames in grid column order
var CameraNames = []string{"Wide", "Closeup", "LowAngle", "Overhead", "Orbital", "Handheld", "Figure8", "ZoomPulse"}

// Cameras tracks which virtual camera is live. Switching is a cut.
type Cameras struct {
	active int // 1-based
}

// NewCameras starts on camera 1
func NewCameras() *Cameras {
	return &Cameras{active: 1}
}

// Select switches to the camera for col. Out of range columns are ignored.
func (c *Cameras) Select(col int) {
	if col < 1 || col > len(CameraNames) {
		return
	}
	c.active = col
	debug.Log("stage", "camera %d %s", col, CameraNames[col-1])
}

func (c *Cameras) Active() int { return c.active }

func (c *Cameras) ActiveName() string { return CameraNames[c.active-1] }
