package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Client{}, &models.Personnel{}, &models.Contract{}, &models.ContractVersion{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPairing(t *testing.T, db *gorm.DB) (models.Client, models.Personnel) {
	t.Helper()
	client := models.Client{Nom: "Transports Morel", SIREN: "512345678"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	worker := models.Personnel{Matricule: "INT-0042", Nom: "Diallo", Prenom: "Awa", Qualification: "cariste"}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("personnel: %v", err)
	}
	return client, worker
}

func activeContract(clientID, personnelID uint, number string, start time.Time, rate *float64) models.Contract {
	return models.Contract{
		Number:      number,
		Type:        models.ContractTypeNew,
		Status:      models.ContractStatusActive,
		StartDate:   start,
		HourlyRate:  rate,
		ClientID:    clientID,
		PersonnelID: personnelID,
	}
}
