package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/models"
)

// CoefficientService resolves a client's billing multiplier schedule.
type CoefficientService struct {
	DB *gorm.DB
}

func NewCoefficientService(db *gorm.DB) *CoefficientService { return &CoefficientService{DB: db} }

// Resolve returns the client's complete nine-field schedule, with unset
// overrides replaced by the defaults. Read-only; fails only for an unknown
// client.
func (s *CoefficientService) Resolve(clientID uint) (models.CoefficientSchedule, error) {
	var client models.Client
	if err := s.DB.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CoefficientSchedule{}, fmt.Errorf("client %d: %w", clientID, ErrNotFound)
		}
		return models.CoefficientSchedule{}, fmt.Errorf("loading client %d: %w", clientID, err)
	}
	return client.Coefficients(), nil
}
