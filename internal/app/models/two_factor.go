package models

import "time"

type TwoFactorCredential struct {
	UserID           string     `bson:"_id"`
	Secret           string     `bson:"secret"`
	BackupCodeHashes []string   `bson:"backupCodeHashes"`
	Enabled          bool       `bson:"enabled"`
	LastUsedAt       *time.Time `bson:"lastUsedAt,omitempty"`
	TimeModel        `bson:",inline"`
}
