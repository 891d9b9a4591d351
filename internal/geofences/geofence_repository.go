package geofences

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/accretegeo-dev/traccar-backend/internal/repository"
)

type Geofence struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type GeofenceRepository struct {
	Repository *repository.Repository
}

func NewGeofenceRepository(r *repository.Repository) *GeofenceRepository {
	return &GeofenceRepository{Repository: r}
}

// GetGeofences lists the tracking platform's geofences. The tc_geofences
// table belongs to the platform and may be missing on standalone
// deployments; callers treat a failure as an empty list.
func (r *GeofenceRepository) GetGeofences() ([]Geofence, error) {
	var geofences = []Geofence{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name").
		From("tc_geofences").
		Order(goqu.I("name").Asc())
	if err := query.Executor().ScanStructs(&geofences); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return geofences, nil
}
