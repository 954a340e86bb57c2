package config

import (
	"os"

	"caoguia-api/internal/adapters/persistence/models"
	"caoguia-api/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, log *logrus.Logger) *Seeder {
	return &Seeder{db: db, log: log}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	s.log.Info("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		s.log.WithError(err).Warn("⚠️ Admin seeder skipped")
	}

	s.log.Info("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the first administrator from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
// This is for development only; production admins are promoted manually.
func (s *Seeder) seedAdminUser() error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	secret := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || secret == "" {
		s.log.Info("⚠️ Skipping admin seed: SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set")
		return nil
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("administrador = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(secret)
	if err != nil {
		return err
	}

	admin := &models.User{
		Nome:            "Administrador",
		Email:           email,
		Senha:           hashedPassword,
		Administrador:   true,
		Ativo:           true,
		StatusValidacao: "aprovado",
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	s.log.WithField("email", admin.Email).Info("✅ Admin user created")
	return nil
}
