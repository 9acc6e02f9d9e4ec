package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"dococlock-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// backupCodeAlphabet leaves out characters that are easy to misread (0/O, 1/I/L).
const backupCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

func GenerateBackupCode(length int) (string, error) {
	max := big.NewInt(int64(len(backupCodeAlphabet)))

	code := make([]byte, length)
	for i := range code {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = backupCodeAlphabet[num.Int64()]
	}
	return string(code), nil
}

func GenerateBackupCodes(count, length int) ([]string, error) {
	codes := make([]string, 0, count)
	for len(codes) < count {
		code, err := GenerateBackupCode(length)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// NormalizeBackupCode makes user input comparable with generated codes.
func NormalizeBackupCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.ReplaceAll(code, "-", "")
}
