package services

import (
	"context"
	"errors"

	"github.com/parasports/idcard/internal/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerIDExists = errors.New("player ID already registered")
)

// PlayerStore is the registry the rest of the system reads players from.
// Backed by Mongo in production and by a JSON file store in development
// and tests.
type PlayerStore interface {
	Create(ctx context.Context, p *models.Player) error
	GetByPlayerID(ctx context.Context, playerID string) (*models.Player, error)
	GetByEmail(ctx context.Context, email string) (*models.Player, error)
	FindByIDAndEmail(ctx context.Context, playerID, email string) (*models.Player, error)
	List(ctx context.Context, limit int) ([]*models.Player, error)
	Update(ctx context.Context, playerID string, req *models.UpdatePlayerRequest) (*models.Player, error)
	Delete(ctx context.Context, playerID string) error
	// SetCardPath records the latest generated card for a player.
	SetCardPath(ctx context.Context, playerID, cardPath string) error
}

// applyPlayerUpdate copies the set fields of an update request onto a
// player record. Shared by both store implementations.
func applyPlayerUpdate(p *models.Player, req *models.UpdatePlayerRequest) error {
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.PrimarySport != nil {
		p.PrimarySport = *req.PrimarySport
	}
	if req.DateOfBirth != nil {
		dob, err := models.ParseDOB(*req.DateOfBirth)
		if err != nil {
			return err
		}
		p.DateOfBirth = dob
	}
	if req.PassportNumber != nil {
		p.PassportNumber = *req.PassportNumber
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.CoachName != nil {
		p.CoachName = *req.CoachName
	}
	if req.CoachContact != nil {
		p.CoachContact = *req.CoachContact
	}
	if req.EmergencyContact != nil {
		p.EmergencyContact = *req.EmergencyContact
	}
	if req.ProfilePhoto != nil {
		p.ProfilePhoto = *req.ProfilePhoto
	}
	return nil
}
