package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene starts active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithNodes seeds the scene with initial nodes. Nil or unnamed nodes are
// skipped; on a name collision the earlier node wins.
//
// Parameters:
//   - nodes: the nodes to register
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithNodes(nodes ...*Node) SceneBuilderOption {
	return func(s *scene) {
		for _, n := range nodes {
			if n == nil || n.Name() == "" {
				continue
			}
			if _, exists := s.registry.Get(n.Name()); exists {
				continue
			}
			s.registry.Set(n.Name(), n)
		}
	}
}
