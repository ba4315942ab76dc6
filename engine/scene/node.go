package scene

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Positionable is the transform surface a scene entry exposes to whatever
// drives it. The character controller moves its avatar through this interface
// without knowing about scene internals.
type Positionable interface {
	// Translation returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Translation() mgl32.Vec3

	// SetTranslation sets the world-space position.
	//
	// Parameters:
	//   - t: the new position
	SetTranslation(t mgl32.Vec3)

	// Orientation returns the world-space rotation.
	//
	// Returns:
	//   - mgl32.Quat: the rotation
	Orientation() mgl32.Quat

	// SetOrientation sets the world-space rotation.
	//
	// Parameters:
	//   - o: the new rotation
	SetOrientation(o mgl32.Quat)
}

// Node is one named entry of a scene: a transform, a local bounding box, and
// a visibility flag. Thread-safe for concurrent access.
type Node struct {
	mu sync.RWMutex

	name        string
	translation mgl32.Vec3
	orientation mgl32.Quat
	scale       mgl32.Vec3
	bounds      cube.BBox
	visible     bool
}

var _ Positionable = &Node{}

// NodeOption is a functional option for configuring a Node.
type NodeOption func(*Node)

// WithTranslation sets the node's initial position.
func WithTranslation(t mgl32.Vec3) NodeOption {
	return func(n *Node) {
		n.translation = t
	}
}

// WithOrientation sets the node's initial rotation.
func WithOrientation(o mgl32.Quat) NodeOption {
	return func(n *Node) {
		n.orientation = o
	}
}

// WithScale sets the node's scale.
func WithScale(s mgl32.Vec3) NodeOption {
	return func(n *Node) {
		n.scale = s
	}
}

// WithBounds sets the node's local-space bounding box.
func WithBounds(b cube.BBox) NodeOption {
	return func(n *Node) {
		n.bounds = b
	}
}

// WithHidden creates the node invisible.
func WithHidden() NodeOption {
	return func(n *Node) {
		n.visible = false
	}
}

// NewNode creates a named node at the origin with identity rotation, unit
// scale, empty bounds, and visibility on.
//
// Parameters:
//   - name: the node's registry name
//   - options: functional options to configure the node
//
// Returns:
//   - *Node: the new node
func NewNode(name string, options ...NodeOption) *Node {
	n := &Node{
		name:        name,
		orientation: mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
		visible:     true,
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// Name returns the node's registry name.
func (n *Node) Name() string {
	return n.name
}

func (n *Node) Translation() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.translation
}

func (n *Node) SetTranslation(t mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.translation = t
}

func (n *Node) Orientation() mgl32.Quat {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.orientation
}

func (n *Node) SetOrientation(o mgl32.Quat) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orientation = o
}

// Scale returns the node's scale.
func (n *Node) Scale() mgl32.Vec3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.scale
}

// SetScale sets the node's scale.
func (n *Node) SetScale(s mgl32.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scale = s
}

// Bounds returns the node's local-space bounding box.
func (n *Node) Bounds() cube.BBox {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.bounds
}

// Visible reports whether the node takes part in visibility queries.
func (n *Node) Visible() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.visible
}

// SetVisible shows or hides the node.
func (n *Node) SetVisible(visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.visible = visible
}

// ModelMatrix returns the node's world transform, translation * rotation * scale.
func (n *Node) ModelMatrix() mgl32.Mat4 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.modelMatrixLocked()
}

// WorldBounds returns the axis-aligned box enclosing the node's local bounds
// under its full transform. Rotated bounds are re-boxed from the transformed
// corners, so the result is conservative but never too small.
func (n *Node) WorldBounds() cube.BBox {
	n.mu.RLock()
	defer n.mu.RUnlock()

	model := n.modelMatrixLocked()
	lo, hi := n.bounds.Min(), n.bounds.Max()

	min := mgl32.Vec3{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	max := mgl32.Vec3{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	for _, x := range [2]float32{lo.X(), hi.X()} {
		for _, y := range [2]float32{lo.Y(), hi.Y()} {
			for _, z := range [2]float32{lo.Z(), hi.Z()} {
				corner := model.Mul4x1(mgl32.Vec4{x, y, z, 1}).Vec3()
				for i := 0; i < 3; i++ {
					min[i] = math32.Min(min[i], corner[i])
					max[i] = math32.Max(max[i], corner[i])
				}
			}
		}
	}
	return cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
}

// modelMatrixLocked builds the world transform. Caller must hold the mutex.
func (n *Node) modelMatrixLocked() mgl32.Mat4 {
	t := mgl32.Translate3D(n.translation.X(), n.translation.Y(), n.translation.Z())
	r := n.orientation.Mat4()
	s := mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z())
	return t.Mul4(r).Mul4(s)
}
