package record

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	Record *InstallationRecord

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// Load implements the Store interface.
func (s *MemoryStore) Load() (*InstallationRecord, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	if s.Record == nil {
		return nil, nil
	}
	cp := *s.Record
	return &cp, nil
}

// Save implements the Store interface.
func (s *MemoryStore) Save(rec *InstallationRecord) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	cp := *rec
	s.Record = &cp
	return nil
}

// Delete implements the Store interface.
func (s *MemoryStore) Delete() error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.Record = nil
	return nil
}
