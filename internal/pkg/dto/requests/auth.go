package requests

type TwoFactorCode struct {
	UserID string `json:"-"`
	Code   string `json:"code" validate:"required,min=6,max=16"`
}

type RegisterProvider struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,password"`
	FullName        string `json:"full_name" validate:"required,max=128"`
	PhoneNumber     string `json:"phone_number" validate:"required,zm_phone"`
	Specialty       string `json:"specialty" validate:"required,max=128"`
	LicenseNumber   string `json:"license_number" validate:"required,max=64"`
	InstitutionName string `json:"institution_name" validate:"required,max=128"`
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Code is required once the account has two-factor enabled.
	Code string `json:"code" validate:"omitempty,min=6,max=16"`
}
