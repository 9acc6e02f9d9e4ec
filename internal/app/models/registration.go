package models

import "time"

type ProviderProfile struct {
	ID            string `bson:"_id"`
	UserID        string `bson:"userId"`
	FullName      string `bson:"fullName"`
	PhoneNumber   string `bson:"phoneNumber"`
	Specialty     string `bson:"specialty"`
	LicenseNumber string `bson:"licenseNumber"`
	TimeModel     `bson:",inline"`
}

type UserRole struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"createdAt"`
}

type InstitutionApplication struct {
	ID              string `bson:"_id"`
	UserID          string `bson:"userId"`
	ProfileID       string `bson:"profileId"`
	InstitutionName string `bson:"institutionName"`
	LicenseNumber   string `bson:"licenseNumber"`
	Status          string `bson:"status"`
	TimeModel       `bson:",inline"`
}

type Session struct {
	UserID    string
	Roles     []string
	Token     string
	ExpiresAt time.Time
}
