package constvars

const (
	RegexContainAtLeastOneSpecialChar = `.*[!@#$%^&*(),.?":{}|<>].*`
	RegexContainAtLeastOneUppercase   = `.*[A-Z].*`
	RegexContainAtLeastOneLowercase   = `.*[a-z].*`
	RegexContainAtLeastOneDigit       = `.*\d.*`
	RegexNumeric                      = `^\d+$`
	// RegexZambiaPhoneNumber accepts local (0XXXXXXXXX), country coded (260XXXXXXXXX) and +260 forms.
	RegexZambiaPhoneNumber = `^(?:\+?260|0)?[79]\d{8}$`
)
