package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"

	"github.com/dmorneau/kinema-go/common"
	"github.com/dmorneau/kinema-go/engine/window"
)

// Sampler collects raw window input events and exposes them as frame-rate
// independent samples. All sampling is gated by pointer capture: while the
// cursor is not captured no keys read as pressed, no pointer deltas
// accumulate, and scroll input is dropped.
//
// Event handlers are safe to call from the window callback thread while
// the sampling methods are called from the tick loop.
type Sampler interface {
	// Pressed reports whether a key is currently held.
	// Always false while the pointer is not captured.
	//
	// Parameters:
	//   - keyCode: virtual key code to query
	//
	// Returns:
	//   - bool: true if the key is held and the pointer is captured
	Pressed(keyCode uint32) bool

	// PointerDelta returns the pointer motion accumulated since the last
	// call, normalized by the viewport dimensions (full-width sweep = 1.0),
	// and resets the accumulators.
	//
	// Returns:
	//   - dx: horizontal motion in viewport widths (positive = right)
	//   - dy: vertical motion in viewport heights (positive = down)
	PointerDelta() (dx, dy float32)

	// Scroll returns the scroll wheel input accumulated since the last
	// call, clamped to [-1, 1], and resets the accumulator.
	//
	// Returns:
	//   - float32: accumulated scroll steps (positive = up)
	Scroll() float32

	// Captured reports whether the pointer is currently captured.
	//
	// Returns:
	//   - bool: true if captured
	Captured() bool

	// Capture captures the pointer, clearing any held-key state and arming
	// the pointer so the first position sample produces no delta.
	Capture()

	// Release releases the pointer and clears all pending input.
	Release()

	// Reset clears held keys and pending deltas without changing the
	// capture state. The next pointer sample produces no delta.
	Reset()

	// HandleKeyDown records a key press. Pressing the release key while
	// captured releases the pointer instead.
	//
	// Parameters:
	//   - keyCode: virtual key code of the pressed key
	HandleKeyDown(keyCode uint32)

	// HandleKeyUp records a key release.
	//
	// Parameters:
	//   - keyCode: virtual key code of the released key
	HandleKeyUp(keyCode uint32)

	// HandleMouseMove records a pointer position sample. Deltas between
	// successive samples accumulate while captured; the first sample after
	// capture only seeds the reference position.
	//
	// Parameters:
	//   - x: cursor x position (virtual while captured)
	//   - y: cursor y position (virtual while captured)
	HandleMouseMove(x, y float64)

	// HandleMouseDown records a button press. Pressing the capture button
	// while released captures the pointer.
	//
	// Parameters:
	//   - button: the pressed mouse button
	//   - x: cursor x position at press time
	//   - y: cursor y position at press time
	HandleMouseDown(button window.MouseButton, x, y float64)

	// HandleScroll accumulates a scroll wheel step. Dropped while the
	// pointer is not captured.
	//
	// Parameters:
	//   - delta: scroll amount (positive = up)
	HandleScroll(delta float32)

	// HandleFocus reacts to window focus changes. Losing focus releases
	// the pointer so no input leaks in from the background.
	//
	// Parameters:
	//   - focused: new focus state
	HandleFocus(focused bool)
}

// sampler is the implementation of the Sampler interface.
type sampler struct {
	mu sync.Mutex

	// win is the optional window the sampler is attached to. When set,
	// capture changes are forwarded to the platform cursor mode and the
	// live framebuffer size is used for delta normalization.
	win window.Window

	// viewportWidth and viewportHeight normalize pointer deltas when no
	// window is attached.
	viewportWidth  float32
	viewportHeight float32

	// captured mirrors the pointer capture state.
	captured bool

	// keys holds the currently pressed key codes.
	keys map[uint32]bool

	// lastX and lastY are the previous pointer sample, valid only when
	// haveLast is set. Cleared on capture so the first sample after a
	// capture gain cannot produce a spurious jump.
	lastX    float64
	lastY    float64
	haveLast bool

	// deltaX and deltaY accumulate normalized pointer motion between drains.
	deltaX float32
	deltaY float32

	// scroll accumulates clamped wheel input between drains.
	scroll float32

	// releaseKey releases the pointer when pressed while captured.
	releaseKey uint32

	// captureButton captures the pointer when pressed while released.
	captureButton window.MouseButton

	log zerolog.Logger
}

var _ Sampler = &sampler{}

// NewSampler creates a new Sampler with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the sampler
//
// Returns:
//   - Sampler: the configured sampler
func NewSampler(options ...SamplerBuilderOption) Sampler {
	s := &sampler{
		viewportWidth:  1280,
		viewportHeight: 720,
		keys:           make(map[uint32]bool),
		releaseKey:     common.KeyEsc,
		captureButton:  window.MouseButtonLeft,
		log:            zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *sampler) Pressed(keyCode uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.captured {
		return false
	}
	return s.keys[keyCode]
}

func (s *sampler) PointerDelta() (dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dx, dy = s.deltaX, s.deltaY
	s.deltaX, s.deltaY = 0, 0
	return dx, dy
}

func (s *sampler) Scroll() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.scroll
	s.scroll = 0
	return v
}

func (s *sampler) Captured() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captured
}

func (s *sampler) Capture() {
	s.mu.Lock()
	if s.captured {
		s.mu.Unlock()
		return
	}
	win := s.gainCaptureLocked()
	s.mu.Unlock()
	if win != nil {
		win.SetCursorCaptured(true)
	}
}

func (s *sampler) Release() {
	s.mu.Lock()
	if !s.captured {
		s.mu.Unlock()
		return
	}
	win := s.dropCaptureLocked()
	s.mu.Unlock()
	if win != nil {
		win.SetCursorCaptured(false)
	}
}

func (s *sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.keys)
	s.deltaX, s.deltaY = 0, 0
	s.scroll = 0
	s.haveLast = false
}

func (s *sampler) HandleKeyDown(keyCode uint32) {
	s.mu.Lock()
	if keyCode == s.releaseKey {
		if !s.captured {
			s.mu.Unlock()
			return
		}
		win := s.dropCaptureLocked()
		s.mu.Unlock()
		if win != nil {
			win.SetCursorCaptured(false)
		}
		return
	}
	s.keys[keyCode] = true
	s.mu.Unlock()
}

func (s *sampler) HandleKeyUp(keyCode uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, keyCode)
}

func (s *sampler) HandleMouseMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.captured {
		return
	}
	if !s.haveLast {
		s.lastX, s.lastY = x, y
		s.haveLast = true
		return
	}
	dx := x - s.lastX
	dy := y - s.lastY
	s.lastX, s.lastY = x, y

	vw, vh := s.viewportLocked()
	s.deltaX += float32(dx) / vw
	s.deltaY += float32(dy) / vh
}

func (s *sampler) HandleMouseDown(button window.MouseButton, x, y float64) {
	s.mu.Lock()
	if s.captured || button != s.captureButton {
		s.mu.Unlock()
		return
	}
	win := s.gainCaptureLocked()
	s.mu.Unlock()
	if win != nil {
		win.SetCursorCaptured(true)
	}
}

func (s *sampler) HandleScroll(delta float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.captured {
		return
	}
	s.scroll = mgl32.Clamp(s.scroll+delta, -1, 1)
}

func (s *sampler) HandleFocus(focused bool) {
	if focused {
		return
	}
	s.Release()
}

// gainCaptureLocked transitions to the captured state. Held keys are cleared
// so keys pressed before the capture cannot act as stuck input, and the
// pointer reference is discarded so the first sample seeds instead of jumping.
// Returns the window whose cursor mode must be updated, if any.
func (s *sampler) gainCaptureLocked() window.Window {
	s.captured = true
	clear(s.keys)
	s.deltaX, s.deltaY = 0, 0
	s.scroll = 0
	s.haveLast = false
	s.log.Debug().Msg("pointer captured")
	return s.win
}

// dropCaptureLocked transitions to the released state and clears all pending
// input. Returns the window whose cursor mode must be updated, if any.
func (s *sampler) dropCaptureLocked() window.Window {
	s.captured = false
	clear(s.keys)
	s.deltaX, s.deltaY = 0, 0
	s.scroll = 0
	s.haveLast = false
	s.log.Debug().Msg("pointer released")
	return s.win
}

// viewportLocked returns the dimensions used for delta normalization,
// preferring the live framebuffer size when a window is attached.
func (s *sampler) viewportLocked() (w, h float32) {
	w, h = s.viewportWidth, s.viewportHeight
	if s.win != nil {
		w, h = float32(s.win.Width()), float32(s.win.Height())
	}
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}
