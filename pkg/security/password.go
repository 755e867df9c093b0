package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashMismatch  = errors.New("password hash mismatch")
	ErrHashingFailed = errors.New("password hashing failed")
)

// PasswordHasher provides interface for password operations
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new password hasher using bcrypt
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Compare(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrHashMismatch
	}
	return nil
}

// legacyHasher implements the unsalted SHA-256 hex scheme the existing user
// table was populated with. Changing it would invalidate every stored digest,
// so it stays byte-compatible and a bcrypt upgrade happens on login instead.
type legacyHasher struct{}

// NewLegacyHasher returns the SHA-256 hex hasher compatible with stored digests.
func NewLegacyHasher() PasswordHasher {
	return legacyHasher{}
}

func (legacyHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (legacyHasher) Compare(hashedPassword, password string) error {
	sum := sha256.Sum256([]byte(password))
	computed := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(hashedPassword), []byte(computed)) != 1 {
		return ErrHashMismatch
	}
	return nil
}

// IsLegacyHash reports whether a stored digest uses the SHA-256 hex scheme.
func IsLegacyHash(hashedPassword string) bool {
	return !strings.HasPrefix(hashedPassword, "$2")
}

// Verify compares password against a stored digest of either scheme.
func Verify(hashedPassword, password string) error {
	if IsLegacyHash(hashedPassword) {
		return legacyHasher{}.Compare(hashedPassword, password)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrHashMismatch
	}
	return nil
}

// VerifyAndUpgrade verifies password and, when the stored digest is legacy,
// returns a bcrypt rehash the caller may persist. The returned string is empty
// when no upgrade is needed.
func VerifyAndUpgrade(hashedPassword, password string, cost int) (string, error) {
	if err := Verify(hashedPassword, password); err != nil {
		return "", err
	}
	if !IsLegacyHash(hashedPassword) {
		return "", nil
	}
	return NewBcryptHasher(cost).Hash(password)
}
