package config

import (
	"errors"

	"goldloan-ledger/internal/adapters/persistence/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultBranchCode = "HQ"

// SeedMasterData seeds branches and banks
func SeedMasterData(db *gorm.DB, logger *zap.Logger) error {
	if err := seedBranches(db, logger); err != nil {
		return err
	}
	if err := seedBanks(db, logger); err != nil {
		return err
	}

	logger.Info("master data seeded")
	return nil
}

func seedBranches(db *gorm.DB, logger *zap.Logger) error {
	branches := []models.Branch{
		{Code: defaultBranchCode, Name: "Head Office"},
		{Code: "B02", Name: "Riverside"},
	}

	for _, b := range branches {
		var existing models.Branch
		err := db.Where("code = ?", b.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&b).Error; err != nil {
			return err
		}
		logger.Info("created branch", zap.String("code", b.Code))
	}
	return nil
}

func seedBanks(db *gorm.DB, logger *zap.Logger) error {
	names := []string{
		"Bangkok Bank",
		"Kasikornbank",
		"Krungthai Bank",
		"Siam Commercial Bank",
		"Government Savings Bank",
	}

	for _, name := range names {
		var existing models.Bank
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		bank := models.Bank{Name: name, IsActive: true}
		if err := db.Create(&bank).Error; err != nil {
			return err
		}
		logger.Info("created bank", zap.String("name", name))
	}
	return nil
}
