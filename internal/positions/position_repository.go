package positions

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/accretegeo-dev/traccar-backend/internal/repository"
	custom_error "github.com/accretegeo-dev/traccar-backend/pkg/errors"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

const positionsTable = "tc_positions"

// Store is the slice of the tracking platform's position table the
// derivation engine and handlers depend on.
type Store interface {
	GetPosition(id int) (*models.Position, error)
	FindLatestPosition(deviceID int) (*models.Position, error)
	FindLatestPositionBefore(deviceID int, t time.Time) (*models.Position, error)
	FindPositionsInWindow(deviceID int, start, end time.Time) ([]models.Position, error)
	ListPositions(filter ListFilter) ([]models.PositionView, error)
	InsertPosition(record InsertRecord) (models.PositionView, error)
	UpdatePosition(id int, changes UpdateRecord) (models.PositionView, error)
	DeletePosition(id int) (models.PositionView, error)
}

// InsertRecord is a fully resolved position ready for insertion; the
// store assigns the id.
type InsertRecord struct {
	Protocol   string
	DeviceID   int
	ServerTime time.Time
	DeviceTime time.Time
	FixTime    time.Time
	Valid      bool
	Latitude   float64
	Longitude  float64
	Altitude   float64
	Speed      float64
	Course     float64
	Address    *string
	Attributes *string
	Accuracy   float64
	Network    *string
}

// UpdateRecord carries the re-derived fields persisted by an edit. A nil
// Address keeps the stored one.
type UpdateRecord struct {
	Latitude   float64
	Longitude  float64
	Speed      float64
	FixTime    time.Time
	Course     float64
	Attributes string
	Address    *string
}

// ListFilter narrows position listings; zero values mean no filtering.
type ListFilter struct {
	DeviceIDs []int
	From      *time.Time
	To        *time.Time
}

var positionColumns = []interface{}{
	"id", "deviceid", "protocol", "servertime", "devicetime", "fixtime",
	"valid", "latitude", "longitude", "altitude", "speed", "course",
	"address", "attributes", "accuracy", "network",
}

var positionViewColumns = []interface{}{
	"id", "deviceid", "latitude", "longitude", "speed", "address", "fixtime",
}

type PositionRepository struct {
	Repository *repository.Repository
}

func NewPositionRepository(r *repository.Repository) *PositionRepository {
	return &PositionRepository{Repository: r}
}

func (r *PositionRepository) GetPosition(id int) (*models.Position, error) {
	var position models.Position
	found, err := r.Repository.GoquDBWrapper.
		From(positionsTable).
		Select(positionColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&position)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch position: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &position, nil
}

// FindLatestPosition returns the highest-fixtime position for the device,
// the predecessor used when appending a new position. Ties on fixtime
// resolve to the highest id.
func (r *PositionRepository) FindLatestPosition(deviceID int) (*models.Position, error) {
	var position models.Position
	found, err := r.Repository.GoquDBWrapper.
		From(positionsTable).
		Select(positionColumns...).
		Where(goqu.Ex{"deviceid": deviceID}).
		Order(goqu.I("fixtime").Desc(), goqu.I("id").Desc()).
		Limit(1).
		Executor().ScanStruct(&position)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch latest position: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &position, nil
}

// FindLatestPositionBefore returns the most recent position strictly
// before t, the predecessor an edited position re-links to.
func (r *PositionRepository) FindLatestPositionBefore(deviceID int, t time.Time) (*models.Position, error) {
	var position models.Position
	found, err := r.Repository.GoquDBWrapper.
		From(positionsTable).
		Select(positionColumns...).
		Where(goqu.Ex{"deviceid": deviceID}, goqu.C("fixtime").Lt(t)).
		Order(goqu.I("fixtime").Desc(), goqu.I("id").Desc()).
		Limit(1).
		Executor().ScanStruct(&position)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch preceding position: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &position, nil
}

func (r *PositionRepository) FindPositionsInWindow(deviceID int, start, end time.Time) ([]models.Position, error) {
	var positions []models.Position
	err := r.Repository.GoquDBWrapper.
		From(positionsTable).
		Select(positionColumns...).
		Where(
			goqu.Ex{"deviceid": deviceID},
			goqu.C("fixtime").Gte(start),
			goqu.C("fixtime").Lte(end),
		).
		Order(goqu.I("fixtime").Asc(), goqu.I("id").Asc()).
		Executor().ScanStructs(&positions)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch positions in window: %w", err)
	}

	return positions, nil
}

func (r *PositionRepository) ListPositions(filter ListFilter) ([]models.PositionView, error) {
	query := r.Repository.GoquDBWrapper.
		From(positionsTable).
		Select(positionViewColumns...)

	if len(filter.DeviceIDs) > 0 {
		query = query.Where(goqu.C("deviceid").In(filter.DeviceIDs))
	}
	if filter.From != nil {
		query = query.Where(goqu.C("fixtime").Gte(*filter.From))
	}
	if filter.To != nil {
		query = query.Where(goqu.C("fixtime").Lte(*filter.To))
	}

	var views = []models.PositionView{}
	err := query.
		Order(goqu.I("fixtime").Desc()).
		Executor().ScanStructs(&views)
	if err != nil {
		return nil, fmt.Errorf("unable to list positions: %w", err)
	}

	return views, nil
}

func (r *PositionRepository) InsertPosition(record InsertRecord) (models.PositionView, error) {
	var view models.PositionView
	query := r.Repository.GoquDBWrapper.
		Insert(positionsTable).
		Rows(goqu.Record{
			"protocol":   record.Protocol,
			"deviceid":   record.DeviceID,
			"servertime": record.ServerTime,
			"devicetime": record.DeviceTime,
			"fixtime":    record.FixTime,
			"valid":      record.Valid,
			"latitude":   record.Latitude,
			"longitude":  record.Longitude,
			"altitude":   record.Altitude,
			"speed":      record.Speed,
			"course":     record.Course,
			"address":    record.Address,
			"attributes": record.Attributes,
			"accuracy":   record.Accuracy,
			"network":    record.Network,
		}).
		Returning(positionViewColumns...)

	if _, err := query.Executor().ScanStruct(&view); err != nil {
		return models.PositionView{}, fmt.Errorf("failed to insert position record: %w", err)
	}

	return view, nil
}

func (r *PositionRepository) UpdatePosition(id int, changes UpdateRecord) (models.PositionView, error) {
	updates := goqu.Record{
		"latitude":   changes.Latitude,
		"longitude":  changes.Longitude,
		"speed":      changes.Speed,
		"fixtime":    changes.FixTime,
		"course":     changes.Course,
		"attributes": changes.Attributes,
	}
	if changes.Address != nil {
		updates["address"] = *changes.Address
	}

	var view models.PositionView
	found, err := r.Repository.GoquDBWrapper.
		Update(positionsTable).
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Returning(positionViewColumns...).
		Executor().ScanStruct(&view)
	if err != nil {
		return models.PositionView{}, fmt.Errorf("failed to update position: %w", err)
	}
	if !found {
		return models.PositionView{}, custom_error.NewNotFoundError("position")
	}

	return view, nil
}

func (r *PositionRepository) DeletePosition(id int) (models.PositionView, error) {
	var view models.PositionView
	found, err := r.Repository.GoquDBWrapper.
		Delete(positionsTable).
		Where(goqu.Ex{"id": id}).
		Returning(positionViewColumns...).
		Executor().ScanStruct(&view)
	if err != nil {
		return models.PositionView{}, fmt.Errorf("failed to delete position: %w", err)
	}
	if !found {
		return models.PositionView{}, custom_error.NewNotFoundError("position")
	}

	return view, nil
}
