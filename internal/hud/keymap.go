package hud

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/dodscene/dodscene/internal/system"
)

const (
	moveStep = 0.5 // world units per key press
	turnStep = 5   // degrees per key press
)

// keyToCommand maps a key event to a scene command.
func keyToCommand(ev *tcell.EventKey) (system.Command, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return rotate(0, 0, turnStep), true
	case tcell.KeyRight:
		return rotate(0, 0, -turnStep), true
	case tcell.KeyUp:
		return rotate(0, turnStep, 0), true
	case tcell.KeyDown:
		return rotate(0, -turnStep, 0), true
	}

	switch ev.Rune() {
	case 'c':
		return system.Command{Kind: system.CmdCreateSolid}, true
	case 'x':
		return system.Command{Kind: system.CmdDeleteSolid}, true
	case 'l':
		return system.Command{Kind: system.CmdCreateLight}, true
	case 'k':
		return system.Command{Kind: system.CmdDeleteLight}, true
	case 'w':
		return move(moveStep, 0, 0), true
	case 's':
		return move(-moveStep, 0, 0), true
	case 'd':
		return move(0, moveStep, 0), true
	case 'a':
		return move(0, -moveStep, 0), true
	case 'r':
		return move(0, 0, moveStep), true
	case 'f':
		return move(0, 0, -moveStep), true
	}
	return system.Command{}, false
}

func isQuit(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return true
	}
	return ev.Rune() == 'q'
}

func move(forward, right, up float32) system.Command {
	return system.Command{Kind: system.CmdMoveCamera, Delta: mgl32.Vec3{forward, right, up}}
}

func rotate(roll, pitch, yaw float32) system.Command {
	return system.Command{Kind: system.CmdRotateCamera, Delta: mgl32.Vec3{roll, pitch, yaw}}
}
