package tracks

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/accretegeo-dev/traccar-backend/internal/repository"
	custom_error "github.com/accretegeo-dev/traccar-backend/pkg/errors"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

const tracksTable = "custom_routes"

var trackColumns = []interface{}{
	"id", "device_id", "name", "description", "positions", "distance",
	"duration", "start_time", "end_time", "created_at", "updated_at",
}

type TrackRepository struct {
	Repository *repository.Repository
}

func NewTrackRepository(r *repository.Repository) *TrackRepository {
	return &TrackRepository{Repository: r}
}

func (r *TrackRepository) GetTracks() ([]models.Track, error) {
	var tracks = []models.Track{}
	query := r.Repository.GoquDBWrapper.
		From(tracksTable).
		Select(trackColumns...).
		Order(goqu.I("created_at").Desc())
	if err := query.Executor().ScanStructs(&tracks); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return tracks, nil
}

func (r *TrackRepository) GetTracksByDevice(deviceID int) ([]models.Track, error) {
	var tracks = []models.Track{}
	query := r.Repository.GoquDBWrapper.
		From(tracksTable).
		Select(trackColumns...).
		Where(goqu.Ex{"device_id": deviceID}).
		Order(goqu.I("created_at").Desc())
	if err := query.Executor().ScanStructs(&tracks); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return tracks, nil
}

func (r *TrackRepository) GetTrack(id int) (*models.Track, error) {
	var track models.Track
	found, err := r.Repository.GoquDBWrapper.
		From(tracksTable).
		Select(trackColumns...).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&track)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch track: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &track, nil
}

func (r *TrackRepository) PersistTrack(track *models.Track) error {
	query := r.Repository.GoquDBWrapper.
		Insert(tracksTable).
		Rows(goqu.Record{
			"device_id":   track.DeviceID,
			"name":        track.Name,
			"description": track.Description,
			"positions":   track.Positions,
			"distance":    track.Distance,
			"duration":    track.Duration,
			"start_time":  track.StartTime,
			"end_time":    track.EndTime,
		}).
		Returning(trackColumns...)

	if _, err := query.Executor().ScanStruct(track); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("track references a missing device", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert track record: %w", err)
	}

	return nil
}

func (r *TrackRepository) UpdateTrack(id int, req UpdateTrackRequest) (*models.Track, error) {
	updates := goqu.Record{"updated_at": time.Now().UTC()}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Positions != nil {
		updates["positions"] = pq.Array(req.Positions)
	}
	if req.Distance != nil {
		updates["distance"] = *req.Distance
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		updates["end_time"] = *req.EndTime
	}

	var track models.Track
	found, err := r.Repository.GoquDBWrapper.
		Update(tracksTable).
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Returning(trackColumns...).
		Executor().ScanStruct(&track)
	if err != nil {
		return nil, fmt.Errorf("failed to update track: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &track, nil
}

func (r *TrackRepository) RemoveTrack(id int) (*models.Track, error) {
	var track models.Track
	found, err := r.Repository.GoquDBWrapper.
		Delete(tracksTable).
		Where(goqu.Ex{"id": id}).
		Returning(trackColumns...).
		Executor().ScanStruct(&track)
	if err != nil {
		return nil, fmt.Errorf("failed to delete track: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &track, nil
}

// AppendPosition adds a position id to the end of the track's ordered
// list.
func (r *TrackRepository) AppendPosition(id int, positionID int64) (*models.Track, error) {
	return r.mutatePositions(id, "array_append(positions, ?)", positionID)
}

// RemovePosition removes every occurrence of the position id from the
// track's list.
func (r *TrackRepository) RemovePosition(id int, positionID int64) (*models.Track, error) {
	return r.mutatePositions(id, "array_remove(positions, ?)", positionID)
}

func (r *TrackRepository) mutatePositions(id int, expression string, positionID int64) (*models.Track, error) {
	var track models.Track
	found, err := r.Repository.GoquDBWrapper.
		Update(tracksTable).
		Set(goqu.Record{
			"positions":  goqu.L(expression, positionID),
			"updated_at": time.Now().UTC(),
		}).
		Where(goqu.Ex{"id": id}).
		Returning(trackColumns...).
		Executor().ScanStruct(&track)
	if err != nil {
		return nil, fmt.Errorf("failed to update track positions: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &track, nil
}
