package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"example.com/mams/config"
	"example.com/mams/internal/auth"
	"example.com/mams/internal/database"
	"example.com/mams/internal/models"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	Long:  `Create demo bases, users, opening balances and a sample purchase. Safe to run repeatedly: existing rows are left untouched`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	db, _, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		bases := []models.Base{
			{ID: uuid.New(), Name: "Base Alpha", Location: "Nevada"},
			{ID: uuid.New(), Name: "Base Bravo", Location: "Texas"},
			{ID: uuid.New(), Name: "Base Charlie", Location: "Germany"},
		}
		baseByName := make(map[string]uuid.UUID, len(bases))
		for i := range bases {
			var existing models.Base
			err := tx.Where("name = ?", bases[i].Name).First(&existing).Error
			switch {
			case err == nil:
				baseByName[existing.Name] = existing.ID
				continue
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&bases[i]).Error; err != nil {
					return errors.Wrap(err, "failed to seed base")
				}
				baseByName[bases[i].Name] = bases[i].ID
			default:
				return errors.Wrap(err, "failed to look up base")
			}
		}

		passwordHash, err := auth.HashPassword("password123")
		if err != nil {
			return errors.Wrap(err, "failed to hash seed password")
		}

		alphaID := baseByName["Base Alpha"]
		users := []models.User{
			{ID: uuid.New(), Name: "System Admin", Email: "admin@mams.com", PasswordHash: passwordHash, Role: models.RoleAdmin},
			{ID: uuid.New(), Name: "Alpha Commander", Email: "cmdr_alpha@mams.com", PasswordHash: passwordHash, Role: models.RoleCommander, BaseID: &alphaID},
			{ID: uuid.New(), Name: "Logistics Officer", Email: "logistics@mams.com", PasswordHash: passwordHash, Role: models.RoleLogistics},
		}
		var adminID uuid.UUID
		for i := range users {
			var existing models.User
			err := tx.Where("email = ?", users[i].Email).First(&existing).Error
			switch {
			case err == nil:
				if existing.Role == models.RoleAdmin {
					adminID = existing.ID
				}
				continue
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&users[i]).Error; err != nil {
					return errors.Wrap(err, "failed to seed user")
				}
				if users[i].Role == models.RoleAdmin {
					adminID = users[i].ID
				}
			default:
				return errors.Wrap(err, "failed to look up user")
			}
		}

		assets := []models.Asset{
			{ID: uuid.New(), BaseID: baseByName["Base Alpha"], EquipmentType: "M16 Rifle", OpeningBalance: 100},
			{ID: uuid.New(), BaseID: baseByName["Base Alpha"], EquipmentType: "Ammo Box 5.56mm", OpeningBalance: 500},
			{ID: uuid.New(), BaseID: baseByName["Base Bravo"], EquipmentType: "Humvee", OpeningBalance: 10},
			{ID: uuid.New(), BaseID: baseByName["Base Bravo"], EquipmentType: "M16 Rifle", OpeningBalance: 50},
			{ID: uuid.New(), BaseID: baseByName["Base Charlie"], EquipmentType: "Tank M1", OpeningBalance: 5},
		}
		for i := range assets {
			var existing models.Asset
			err := tx.Where("base_id = ? AND equipment_type = ?", assets[i].BaseID, assets[i].EquipmentType).First(&existing).Error
			switch {
			case err == nil:
				continue
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&assets[i]).Error; err != nil {
					return errors.Wrap(err, "failed to seed asset baseline")
				}
			default:
				return errors.Wrap(err, "failed to look up asset baseline")
			}
		}

		var purchaseCount int64
		if err := tx.Model(&models.Purchase{}).Count(&purchaseCount).Error; err != nil {
			return errors.Wrap(err, "failed to count purchases")
		}
		if purchaseCount == 0 {
			purchase := models.Purchase{
				ID:            uuid.New(),
				BaseID:        baseByName["Base Alpha"],
				EquipmentType: "M16 Rifle",
				Quantity:      20,
				Date:          time.Now().UTC(),
				RecordedByID:  adminID,
			}
			if err := tx.Create(&purchase).Error; err != nil {
				return errors.Wrap(err, "failed to seed purchase")
			}
		}

		log.Info().Msg("Database seeded")
		return nil
	})
}
