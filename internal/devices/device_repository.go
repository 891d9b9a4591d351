package devices

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/accretegeo-dev/traccar-backend/internal/repository"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

type DeviceRepository struct {
	Repository *repository.Repository
}

func NewDeviceRepository(r *repository.Repository) *DeviceRepository {
	return &DeviceRepository{Repository: r}
}

func (r *DeviceRepository) GetDevices() ([]models.Device, error) {
	var devices = []models.Device{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "uniqueid").
		From("devices").
		Order(goqu.I("name").Asc())
	if err := query.Executor().ScanStructs(&devices); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return devices, nil
}

func (r *DeviceRepository) GetDevice(id int) (*models.Device, error) {
	var device models.Device
	found, err := r.Repository.GoquDBWrapper.
		Select("id", "name", "uniqueid").
		From("devices").
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&device)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch device: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &device, nil
}

// UpsertDevice inserts a device unless its uniqueid is already taken.
func (r *DeviceRepository) UpsertDevice(name, uniqueID string) error {
	query := r.Repository.GoquDBWrapper.
		Insert("devices").
		Rows(goqu.Record{"name": name, "uniqueid": uniqueID}).
		OnConflict(goqu.DoNothing())

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to upsert device %s: %w", uniqueID, err)
	}

	return nil
}
