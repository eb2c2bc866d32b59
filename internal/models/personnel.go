package models

import "time"

// Personnel entity — intérimaire mis à disposition chez un client.
type Personnel struct {
	ID            uint   `gorm:"primaryKey"`
	Matricule     string `gorm:"unique;not null"`
	Nom           string `gorm:"not null;index"`
	Prenom        string `gorm:"index"`
	Email         string
	Telephone     string
	Adresse       string
	CodePostal    string
	Ville         string
	NumeroSecu    string // numéro de sécurité sociale
	Qualification string // ex: cariste, soudeur, assistant administratif
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName keeps gorm from pluralising "personnel".
func (Personnel) TableName() string { return "personnel" }
