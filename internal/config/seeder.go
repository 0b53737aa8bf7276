package config

import (
	"goldloan-ledger/internal/adapters/persistence/models"
	"goldloan-ledger/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Run executes all seeders. Master data goes first; users reference the
// default branch.
func (s *Seeder) Run() error {
	if err := SeedMasterData(s.db, s.logger); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		s.logger.Warn("admin seeder skipped", zap.Error(err))
	}
	if err := s.seedBranchUser(); err != nil {
		s.logger.Warn("branch user seeder skipped", zap.Error(err))
	}

	s.logger.Info("database seeding completed")
	return nil
}

// seedAdminUser seeds the default admin for development.
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		FullName: "System Administrator",
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	s.logger.Info("admin user created", zap.String("username", admin.Username))
	return nil
}

// seedBranchUser seeds a clerk bound to the head office branch
func (s *Seeder) seedBranchUser() error {
	var branch models.Branch
	if err := s.db.Where("code = ?", defaultBranchCode).First(&branch).Error; err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", "clerk").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash("clerk123456")
	if err != nil {
		return err
	}

	clerk := &models.User{
		Username: "clerk",
		FullName: "Head Office Clerk",
		Password: hashedPassword,
		Role:     "BRANCH_USER",
		BranchID: &branch.ID,
		IsActive: true,
	}
	if err := s.db.Create(clerk).Error; err != nil {
		return err
	}

	s.logger.Info("branch user created", zap.String("username", clerk.Username), zap.String("branch", branch.Code))
	return nil
}
