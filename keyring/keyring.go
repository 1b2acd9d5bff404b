// Package keyring is the SDK's secret store: it persists the encoded
// session token and the raw login pair between runs, sealed at rest.
package keyring

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the secret-store surface the session manager depends on.
type Store interface {
	Get(service, account string) ([]byte, bool, error)
	Set(service, account string, secret []byte) error
	Delete(service, account string) error
	Close() error
}

// Service is the fixed service identifier the SDK files its secrets under.
const Service = "gorant"

// Account labels within the service.
const (
	AccountToken       = "auth-token"
	AccountCredentials = "credentials"
)

// Secret is one sealed row of the keyring database.
type Secret struct {
	ID        uint   `gorm:"primaryKey"`
	Service   string `gorm:"uniqueIndex:idx_service_account;not null"`
	Account   string `gorm:"uniqueIndex:idx_service_account;not null"`
	Blob      []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SQLite is a Store backed by a local sqlite database. Blobs are sealed
// with XChaCha20-Poly1305 under a key derived from the configured seal key.
type SQLite struct {
	db   *gorm.DB
	aead cipher.AEAD
}

// Open opens (creating if needed) the keyring database at path.
func Open(path, sealKey string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	if err := db.AutoMigrate(&Secret{}); err != nil {
		return nil, fmt.Errorf("migrate keyring: %w", err)
	}
	key := sha256.Sum256([]byte(sealKey))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db, aead: aead}, nil
}

func (s *SQLite) Get(service, account string) ([]byte, bool, error) {
	var row Secret
	err := s.db.Where("service = ? AND account = ?", service, account).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	plain, err := s.open(row.Blob)
	if err != nil {
		return nil, false, fmt.Errorf("unseal %s/%s: %w", service, account, err)
	}
	return plain, true, nil
}

func (s *SQLite) Set(service, account string, secret []byte) error {
	sealed, err := s.seal(secret)
	if err != nil {
		return err
	}
	row := Secret{Service: service, Account: account, Blob: sealed}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "service"}, {Name: "account"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&row).Error
}

func (s *SQLite) Delete(service, account string) error {
	return s.db.Where("service = ? AND account = ?", service, account).Delete(&Secret{}).Error
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLite) seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *SQLite) open(sealed []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns {
		return nil, errors.New("sealed blob too short")
	}
	return s.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
}

var _ Store = (*SQLite)(nil)
