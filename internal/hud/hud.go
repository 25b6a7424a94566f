package hud

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	coresys "github.com/dodscene/dodscene/internal/core/system"
	"github.com/dodscene/dodscene/internal/scene"
	"github.com/dodscene/dodscene/internal/system"
)

const helpLine = "c/x solid+/-  l/k light+/-  wasd move  r/f up/down  arrows look  q quit"

// HUD draws scene statistics on a terminal and turns key presses into
// scene commands. Drawing happens on the frame goroutine (Phase 3, Output);
// key reading runs on its own goroutine and only talks to the InputSystem
// queue.
type HUD struct {
	screen tcell.Screen
	scene  *scene.Scene
	input  *system.InputSystem

	quit     chan struct{}
	quitOnce sync.Once
}

func New(screen tcell.Screen, sc *scene.Scene, input *system.InputSystem) *HUD {
	return &HUD{
		screen: screen,
		scene:  sc,
		input:  input,
		quit:   make(chan struct{}),
	}
}

func (h *HUD) Phase() coresys.Phase { return coresys.PhaseOutput }

func (h *HUD) Update(dt time.Duration) {
	h.Draw(dt)
}

// Done is closed once the user asked to quit.
func (h *HUD) Done() <-chan struct{} { return h.quit }

// Run reads key events until quit or until the screen is finalized.
func (h *HUD) Run() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			h.stop()
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			h.screen.Sync()
		case *tcell.EventKey:
			if h.HandleKey(ev) {
				return
			}
		}
	}
}

// HandleKey queues the command bound to ev. It reports true on quit.
func (h *HUD) HandleKey(ev *tcell.EventKey) bool {
	if isQuit(ev) {
		h.stop()
		return true
	}
	if cmd, ok := keyToCommand(ev); ok {
		h.input.Push(cmd)
	}
	return false
}

func (h *HUD) stop() {
	h.quitOnce.Do(func() { close(h.quit) })
}

// Draw renders the status block.
func (h *HUD) Draw(dt time.Duration) {
	h.screen.Clear()
	title := tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	body := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	help := tcell.StyleDefault.Foreground(tcell.ColorGray)

	lines := statusLines(h.scene.Stats(), h.scene.Camera(), dt)
	h.drawText(1, 0, lines[0], title)
	for i, line := range lines[1:] {
		h.drawText(1, i+2, line, body)
	}
	_, height := h.screen.Size()
	h.drawText(1, height-1, helpLine, help)
	h.screen.Show()
}

func statusLines(st scene.Stats, cam scene.Camera, dt time.Duration) []string {
	return []string{
		"dodscene",
		fmt.Sprintf("solids %d   lights %d", st.Solids, st.Lights),
		fmt.Sprintf("ids issued %d   free %d", st.Issued, st.Free),
		fmt.Sprintf("capacity  kinds %d  positions %d  eulers %d  lights %d",
			st.KindSize, st.PositionSize, st.EulerSize, st.LightSize),
		fmt.Sprintf("camera (%.2f, %.2f, %.2f)  yaw %.1f  pitch %.1f",
			cam.Position[0], cam.Position[1], cam.Position[2], cam.Yaw(), cam.Pitch()),
		fmt.Sprintf("frame %s", dt),
	}
}

func (h *HUD) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		h.screen.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}
