package container

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/accretegeo-dev/traccar-backend/internal/devices"
	"github.com/accretegeo-dev/traccar-backend/internal/geofences"
	"github.com/accretegeo-dev/traccar-backend/internal/positions"
	"github.com/accretegeo-dev/traccar-backend/internal/repository"
	"github.com/accretegeo-dev/traccar-backend/internal/tracks"
	"github.com/accretegeo-dev/traccar-backend/internal/trips"
)

type Container struct {
	Repository       *repository.Repository
	DeviceRepository *devices.DeviceRepository
	PositionHandler  *positions.Handler
	DeviceHandler    *devices.Handler
	GeofenceHandler  *geofences.Handler
	TrackHandler     *tracks.Handler
	TripHandler      *trips.Handler
}

func NewAppContainer(db *sql.DB, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)
	positionRepo := positions.NewPositionRepository(repo)
	deviceRepo := devices.NewDeviceRepository(repo)
	geofenceRepo := geofences.NewGeofenceRepository(repo)
	trackRepo := tracks.NewTrackRepository(repo)
	overrideRepo := trips.NewOverrideRepository(repo)

	return &Container{
		Repository:       repo,
		DeviceRepository: deviceRepo,
		PositionHandler:  positions.NewHandler(positionRepo, logger),
		DeviceHandler:    devices.NewHandler(deviceRepo),
		GeofenceHandler:  geofences.NewHandler(geofenceRepo, logger),
		TrackHandler:     tracks.NewHandler(trackRepo),
		TripHandler:      trips.NewHandler(overrideRepo),
	}
}
