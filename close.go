package ivory

// Close saves the store to its current location, then releases the in-memory
// columns. The store is unusable afterwards; operations fail with ErrClosed.
// Close is idempotent: a second call is a no-op.
func (s *Store) Close() error {
	if s == nil || s.closed {
		return nil
	}

	err := s.Save()

	s.closed = true
	s.attributes = nil
	s.deleted.Clear()
	s.rows = 0

	return err
}
