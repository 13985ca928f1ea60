package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// Credential records are stored as "algorithm$salt$hash". bcrypt keeps its
// salt inside the hash, so its salt field is empty.
const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmSHA512 = "sha512"
)

var ErrMalformedCredential = errors.New("malformed credential record")

// HashPassword returns a new bcrypt credential record for password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "error hashing password")
	}
	return strings.Join([]string{AlgorithmBcrypt, "", string(hash)}, "$"), nil
}

// VerifyPassword reports whether password matches the credential record.
// Records written by the previous service ("sha512$salt$hexdigest") are
// still accepted.
func VerifyPassword(record, password string) (bool, error) {
	parts := strings.SplitN(record, "$", 3)
	if len(parts) != 3 {
		return false, ErrMalformedCredential
	}

	switch parts[0] {
	case AlgorithmBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(parts[2]), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	case AlgorithmSHA512:
		want := sha512Digest(parts[1], password)
		return subtle.ConstantTimeCompare([]byte(want), []byte(parts[2])) == 1, nil
	default:
		return false, fmt.Errorf("unknown password algorithm %q: %w", parts[0], ErrMalformedCredential)
	}
}

func sha512Digest(salt, password string) string {
	sum := sha512.Sum512([]byte(salt + password))
	return hex.EncodeToString(sum[:])
}
