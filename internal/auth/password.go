// Package auth provides the password hashing and session token primitives
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt digest from the password.
// The returned string encodes algorithm, cost and salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored digest.
// A malformed digest verifies false, it never panics or errors out.
func CheckPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
