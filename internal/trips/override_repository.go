package trips

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/accretegeo-dev/traccar-backend/internal/repository"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

const overridesTable = "trip_overrides"

var overrideColumns = []interface{}{"start_position_id", "device_id", "edited"}

type OverrideRepository struct {
	Repository *repository.Repository
}

func NewOverrideRepository(r *repository.Repository) *OverrideRepository {
	return &OverrideRepository{Repository: r}
}

func (r *OverrideRepository) GetOverrides(deviceID *int) ([]models.TripOverride, error) {
	query := r.Repository.GoquDBWrapper.
		From(overridesTable).
		Select(overrideColumns...)
	if deviceID != nil {
		query = query.Where(goqu.Ex{"device_id": *deviceID})
	}

	var overrides = []models.TripOverride{}
	if err := query.Executor().ScanStructs(&overrides); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return overrides, nil
}

// SaveOverride upserts the edited patch for the trip starting at the
// given position, keyed by start_position_id.
func (r *OverrideRepository) SaveOverride(override models.TripOverride) (models.TripOverride, error) {
	var saved models.TripOverride
	query := r.Repository.GoquDBWrapper.
		Insert(overridesTable).
		Rows(goqu.Record{
			"start_position_id": override.StartPositionID,
			"device_id":         override.DeviceID,
			"edited":            string(override.Edited),
			"updated_at":        time.Now().UTC(),
		}).
		OnConflict(goqu.DoUpdate("start_position_id", goqu.Record{
			"device_id":  override.DeviceID,
			"edited":     string(override.Edited),
			"updated_at": time.Now().UTC(),
		})).
		Returning(overrideColumns...)

	if _, err := query.Executor().ScanStruct(&saved); err != nil {
		return models.TripOverride{}, fmt.Errorf("failed to save trip override: %w", err)
	}

	return saved, nil
}

// SaveOverrides upserts a batch of overrides inside one transaction.
func (r *OverrideRepository) SaveOverrides(overrides []models.TripOverride) ([]models.TripOverride, error) {
	saved := make([]models.TripOverride, 0, len(overrides))
	err := repository.WithTransaction(r.Repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for _, override := range overrides {
			var row models.TripOverride
			query := tx.
				Insert(overridesTable).
				Rows(goqu.Record{
					"start_position_id": override.StartPositionID,
					"device_id":         override.DeviceID,
					"edited":            string(override.Edited),
					"updated_at":        time.Now().UTC(),
				}).
				OnConflict(goqu.DoUpdate("start_position_id", goqu.Record{
					"device_id":  override.DeviceID,
					"edited":     string(override.Edited),
					"updated_at": time.Now().UTC(),
				})).
				Returning(overrideColumns...)

			if _, err := query.Executor().ScanStruct(&row); err != nil {
				return fmt.Errorf("failed to save trip override: %w", err)
			}
			saved = append(saved, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}
