package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dodscene/dodscene/internal/core/ecs"
	"github.com/dodscene/dodscene/internal/scene"
)

// Scene is the part of the scene store scripts can drive.
type Scene interface {
	CreateSolid() (ecs.EntityID, error)
	DeleteSolid() (ecs.EntityID, error)
	CreateLight() (ecs.EntityID, error)
	DeleteLight() (ecs.EntityID, error)
	MoveCamera(dForward, dRight, dUp float32)
	RotateCamera(dRoll, dPitch, dYaw float32)
	Stats() scene.Stats
}

// Engine wraps a single gopher-lua VM running scenario scripts.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm    *lua.LState
	scene Scene
	log   *zap.Logger
}

// NewEngine creates a Lua VM bound to sc. Scripts are loaded separately
// with LoadDir or DoString.
func NewEngine(sc Scene, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, scene: sc, log: log}
	e.register()
	return e
}

func (e *Engine) Close() { e.vm.Close() }

// LoadDir loads all .lua files in a directory. A missing directory is not
// an error.
func (e *Engine) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
		loaded++
	}
	return loaded, nil
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFrameHook reports whether a script defined on_frame.
func (e *Engine) HasFrameHook() bool {
	return e.vm.GetGlobal("on_frame") != lua.LNil
}

// OnFrame calls the script's on_frame(frame, dt) hook if there is one.
func (e *Engine) OnFrame(frame uint64, dt float64) error {
	fn := e.vm.GetGlobal("on_frame")
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(frame), lua.LNumber(dt)); err != nil {
		return fmt.Errorf("lua on_frame: %w", err)
	}
	return nil
}

func (e *Engine) register() {
	fns := map[string]lua.LGFunction{
		"create_solid":  e.entityOp("create_solid", e.scene.CreateSolid),
		"delete_solid":  e.entityOp("delete_solid", e.scene.DeleteSolid),
		"create_light":  e.entityOp("create_light", e.scene.CreateLight),
		"delete_light":  e.entityOp("delete_light", e.scene.DeleteLight),
		"move_camera":   e.moveCamera,
		"rotate_camera": e.rotateCamera,
		"stats":         e.stats,
	}
	for name, fn := range fns {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

// entityOp returns id on success, or nil plus an error message.
func (e *Engine) entityOp(name string, op func() (ecs.EntityID, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		id, err := op()
		if err != nil {
			e.log.Debug("lua scene op failed", zap.String("op", name), zap.Error(err))
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LNumber(id))
		return 1
	}
}

func (e *Engine) moveCamera(L *lua.LState) int {
	e.scene.MoveCamera(
		float32(L.OptNumber(1, 0)),
		float32(L.OptNumber(2, 0)),
		float32(L.OptNumber(3, 0)),
	)
	return 0
}

func (e *Engine) rotateCamera(L *lua.LState) int {
	e.scene.RotateCamera(
		float32(L.OptNumber(1, 0)),
		float32(L.OptNumber(2, 0)),
		float32(L.OptNumber(3, 0)),
	)
	return 0
}

func (e *Engine) stats(L *lua.LState) int {
	st := e.scene.Stats()
	t := L.NewTable()
	t.RawSetString("solids", lua.LNumber(st.Solids))
	t.RawSetString("lights", lua.LNumber(st.Lights))
	t.RawSetString("issued", lua.LNumber(st.Issued))
	t.RawSetString("free", lua.LNumber(st.Free))
	L.Push(t)
	return 1
}
