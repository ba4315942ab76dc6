package input

import (
	"github.com/rs/zerolog"

	"github.com/dmorneau/kinema-go/engine/window"
)

// SamplerBuilderOption is a functional option for configuring a sampler.
// Use the With* functions to create options.
type SamplerBuilderOption func(s *sampler)

// WithWindow attaches the sampler to a window. All input callbacks of the
// window are wired to the sampler's handlers, capture changes drive the
// platform cursor mode, and pointer deltas are normalized by the live
// framebuffer size.
//
// Parameters:
//   - win: the window to attach to
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithWindow(win window.Window) SamplerBuilderOption {
	return func(s *sampler) {
		s.win = win
		win.SetKeyDownCallback(s.HandleKeyDown)
		win.SetKeyUpCallback(s.HandleKeyUp)
		win.SetMouseMoveCallback(s.HandleMouseMove)
		win.SetMouseDownCallback(s.HandleMouseDown)
		win.SetScrollCallback(s.HandleScroll)
		win.SetFocusCallback(s.HandleFocus)
	}
}

// WithViewport sets the viewport dimensions used to normalize pointer deltas
// when no window is attached.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithViewport(width, height int) SamplerBuilderOption {
	return func(s *sampler) {
		s.viewportWidth = float32(width)
		s.viewportHeight = float32(height)
	}
}

// WithReleaseKey sets the key that releases the pointer while captured.
// Defaults to escape.
//
// Parameters:
//   - keyCode: virtual key code of the release key
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithReleaseKey(keyCode uint32) SamplerBuilderOption {
	return func(s *sampler) {
		s.releaseKey = keyCode
	}
}

// WithCaptureButton sets the mouse button that captures the pointer while
// released. Defaults to the left button.
//
// Parameters:
//   - button: the capture button
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithCaptureButton(button window.MouseButton) SamplerBuilderOption {
	return func(s *sampler) {
		s.captureButton = button
	}
}

// WithLogger sets the logger used for capture state changes.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - SamplerBuilderOption: option function to apply
func WithLogger(log zerolog.Logger) SamplerBuilderOption {
	return func(s *sampler) {
		s.log = log.With().Str("component", "input").Logger()
	}
}
