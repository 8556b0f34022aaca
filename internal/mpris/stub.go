//go:build !linux

// Package mpris is a no-op outside Linux.
package mpris

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/playback"
)

// Controller is the part of the playback controller MPRIS drives.
type Controller interface {
	PlayStation(st catalog.Station)
	TogglePlayPause()
	Stop()
	SetVolume(level float64)
	Session() playback.Session
}

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Controller, _ zerolog.Logger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
