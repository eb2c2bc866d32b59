package handlers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adhexa/interim-app/internal/models"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.Client{}, &models.Personnel{},
		&models.Contract{}, &models.ContractVersion{}, &models.Invoice{}, &models.InvoiceLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seed minimal user/client/personnel for contract and invoice flows
func seedHandlerFixtures(t *testing.T, db *gorm.DB) (user models.User, client models.Client, worker models.Personnel) {
	t.Helper()
	role := models.Role{Name: "gestionnaire"}
	if err := db.Create(&role).Error; err != nil {
		t.Fatalf("role: %v", err)
	}
	user = models.User{Email: "gest@test", Password: "x", Nom: "Martin", Prenom: "Claire", RoleID: role.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	client = models.Client{Nom: "Logistique Horizon", SIREN: "532198765"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	worker = models.Personnel{Matricule: "INT-0007", Nom: "Ba", Prenom: "Moussa", Qualification: "préparateur de commandes"}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("personnel: %v", err)
	}
	return
}

func seedActiveContract(t *testing.T, db *gorm.DB, client models.Client, worker models.Personnel, rate float64) models.Contract {
	t.Helper()
	c := models.Contract{
		Number:      "CTR-FIX-1",
		Type:        models.ContractTypeNew,
		Status:      models.ContractStatusActive,
		StartDate:   time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		HourlyRate:  &rate,
		ClientID:    client.ID,
		PersonnelID: worker.ID,
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("contract: %v", err)
	}
	return c
}
