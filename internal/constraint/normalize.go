package constraint

// NormalizeFractionalCoordinates projects every atom back into the
// primitive cell and invalidates all constraint state: the underlying
// structure clears every atom's relation sets, and this call additionally
// empties the tracing and constraining lists.
func (m *Manager) NormalizeFractionalCoordinates() error {
	if err := m.Structure.NormalizeFractionalCoordinates(); err != nil {
		return err
	}
	m.ClearInteratomicDistanceConstraints()
	return nil
}

// NormalizeAverageFractionalCoordinates is the mean-recentring variant
// of NormalizeFractionalCoordinates, with the same invalidation.
func (m *Manager) NormalizeAverageFractionalCoordinates() error {
	if err := m.Structure.NormalizeAverageFractionalCoordinates(); err != nil {
		return err
	}
	m.ClearInteratomicDistanceConstraints()
	return nil
}
