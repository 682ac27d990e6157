// Package password wraps bcrypt for credential storage. Plaintext passwords
// never leave this package's callers unhashed.
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a stored credential from a plaintext password.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches the stored credential.
func Verify(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
