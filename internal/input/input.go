package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer command, independent of the physical binding.
type Action int

const (
	ActionOrbitLeft Action = iota
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionZoomIn
	ActionZoomOut
	ActionDrag
	ActionToggleSpin
	ActionRebuild
	ActionToggleProfiling
	ActionQuit
	ActionCount
)

// Manager maps glfw keys and mouse buttons to actions and tracks per-frame
// edges, cursor motion and scroll. Callbacks may arrive from glfw while the
// frame reads state, so everything is behind one lock.
type Manager struct {
	mu sync.RWMutex

	keyToActions    map[glfw.Key][]Action
	buttonToActions map[glfw.MouseButton][]Action

	current      [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	cursorX, cursorY float64
	haveCursor       bool
	dx, dy           float64
	scroll           float64
}

// NewManager returns a manager with the default viewer bindings.
func NewManager() *Manager {
	m := &Manager{
		keyToActions:    make(map[glfw.Key][]Action),
		buttonToActions: make(map[glfw.MouseButton][]Action),
	}

	m.BindKey(glfw.KeyLeft, ActionOrbitLeft)
	m.BindKey(glfw.KeyA, ActionOrbitLeft)
	m.BindKey(glfw.KeyRight, ActionOrbitRight)
	m.BindKey(glfw.KeyD, ActionOrbitRight)
	m.BindKey(glfw.KeyUp, ActionOrbitUp)
	m.BindKey(glfw.KeyW, ActionOrbitUp)
	m.BindKey(glfw.KeyDown, ActionOrbitDown)
	m.BindKey(glfw.KeyS, ActionOrbitDown)
	m.BindKey(glfw.KeyE, ActionZoomIn)
	m.BindKey(glfw.KeyQ, ActionZoomOut)
	m.BindKey(glfw.KeySpace, ActionToggleSpin)
	m.BindKey(glfw.KeyR, ActionRebuild)
	m.BindKey(glfw.KeyP, ActionToggleProfiling)
	m.BindKey(glfw.KeyEscape, ActionQuit)

	m.BindMouseButton(glfw.MouseButtonLeft, ActionDrag)
	return m
}

// BindKey adds a binding; a key may drive several actions.
func (m *Manager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

func (m *Manager) BindMouseButton(button glfw.MouseButton, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buttonToActions[button] = append(m.buttonToActions[button], action)
}

// HandleKey records a key event. Repeat counts as held.
func (m *Manager) HandleKey(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.keyToActions[key], action == glfw.Press || action == glfw.Repeat)
}

func (m *Manager) HandleMouseButton(button glfw.MouseButton, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(m.buttonToActions[button], action == glfw.Press)
}

func (m *Manager) apply(actions []Action, pressed bool) {
	for _, a := range actions {
		if pressed && !m.current[a] {
			m.justPressed[a] = true
		}
		if !pressed && m.current[a] {
			m.justReleased[a] = true
		}
		m.current[a] = pressed
	}
}

// HandleCursor accumulates motion since the previous cursor event. The first
// event only establishes the position.
func (m *Manager) HandleCursor(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.haveCursor {
		m.dx += x - m.cursorX
		m.dy += y - m.cursorY
	}
	m.cursorX, m.cursorY, m.haveCursor = x, y, true
}

func (m *Manager) HandleScroll(yoff float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scroll += yoff
}

// Attach installs the glfw callbacks on window.
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleKey(key, action)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		m.HandleCursor(x, y)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		m.HandleScroll(yoff)
	})
}

// PostUpdate ends the frame: edge flags, cursor motion and scroll reset.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
	m.dx, m.dy, m.scroll = 0, 0, 0
}

func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current[action]
}

// JustPressed is true only in the frame the action went down.
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}

// CursorDelta is the cursor motion this frame.
func (m *Manager) CursorDelta() (dx, dy float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dx, m.dy
}

// Scroll is the vertical scroll this frame.
func (m *Manager) Scroll() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scroll
}
