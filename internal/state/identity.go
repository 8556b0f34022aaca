package state

// UserID returns the stored device identifier, or "" if none was saved yet.
func (m *Manager) UserID() (string, error) {
	id, _, err := getSetting(m.db, keyUserID)
	return id, err
}

// SaveUserID stores the device identifier. An existing identifier is never
// overwritten; the stored value is returned so concurrent first runs agree.
func (m *Manager) SaveUserID(id string) (string, error) {
	_, err := m.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, keyUserID, id)
	if err != nil {
		return "", err
	}
	return m.UserID()
}
