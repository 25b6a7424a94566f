package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput  Phase = iota // 0: drain queued commands
	PhaseScript              // 1: scenario scripts
	PhaseUpdate              // 2: scene update kernels
	PhaseOutput              // 3: stats, HUD
)

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
