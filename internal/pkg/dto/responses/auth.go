package responses

import "time"

type TwoFactorSetup struct {
	Secret      string   `json:"secret"`
	OTPAuthURL  string   `json:"otpauth_url"`
	BackupCodes []string `json:"backup_codes"`
}

type TwoFactorVerify struct {
	Method               string `json:"method"`
	RemainingBackupCodes int    `json:"remaining_backup_codes"`
}

type ProviderRegistration struct {
	UserID        string    `json:"user_id"`
	ProfileID     string    `json:"profile_id"`
	ApplicationID string    `json:"application_id"`
	Token         string    `json:"token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type Login struct {
	UserID    string    `json:"user_id"`
	Roles     []string  `json:"roles"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
