package state

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/llehouerou/airwaves/internal/db"
)

// VolumeState represents the saved volume state.
type VolumeState struct {
	Volume float64
	Muted  bool
}

// GetVolume returns the saved volume state, full volume when never saved.
func (m *Manager) GetVolume() (*VolumeState, error) {
	vs := &VolumeState{Volume: 1.0}

	raw, ok, err := getSetting(m.db, keyVolume)
	if err != nil {
		return nil, err
	}
	if ok {
		if v, perr := strconv.ParseFloat(raw, 64); perr == nil {
			vs.Volume = clampVolume(v)
		}
	}

	raw, ok, err = getSetting(m.db, keyMuted)
	if err != nil {
		return nil, err
	}
	if ok {
		vs.Muted = parseBool(raw)
	}

	return vs, nil
}

// SaveVolume persists the volume level (clamped to [0,1]) and muted flag.
func (m *Manager) SaveVolume(volume float64, muted bool) error {
	level := strconv.FormatFloat(clampVolume(volume), 'f', -1, 64)
	return db.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		if err := setSetting(tx, keyVolume, level); err != nil {
			return err
		}
		return setSetting(tx, keyMuted, formatBool(muted))
	})
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
