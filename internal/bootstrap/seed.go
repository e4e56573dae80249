package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Department{},
		&model.Position{},
		&model.Profile{},
		&model.ProfileName{},
		&model.Employment{},
		&model.MethodicalWork{},
		&model.ResearchWork{},
		&model.Certificate{},
		&model.SoftwareCertificate{},
		&model.StoredFile{},
	)
}

// SeedDepartments makes sure the default department exists so new staff
// have somewhere to land.
func SeedDepartments(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Department{}).
		Where("name = ?", model.DefaultDepartmentName).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		if err := db.Create(&model.Department{Name: model.DefaultDepartmentName}).Error; err != nil {
			return err
		}
	}

	return nil
}

func SeedPositions(db *gorm.DB) error {
	defaultPositions := []string{
		"Professor",
		"Dotsent",
		"Katta o'qituvchi",
		"Assistent",
		"Stajyor-o'qituvchi",
	}

	for _, name := range defaultPositions {
		var count int64
		if err := db.Model(&model.Position{}).
			Where("name = ?", name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&model.Position{Name: name}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the initial admin account. Development only;
// production admins are provisioned by hand.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ?", "admin").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		adminUser := model.User{
			Username:     "admin",
			PasswordHash: string(hashedPasswordBytes),
			FirstName:    "Administrator",
		}
		if err := tx.Create(&adminUser).Error; err != nil {
			return err
		}

		adminProfile := model.Profile{
			UserID: adminUser.ID,
			Role:   model.RoleAdmin,
		}
		if err := tx.Create(&adminProfile).Error; err != nil {
			return err
		}

		log.Println("Admin user seeded successfully")
		log.Println("   Username: admin")
		log.Println("   Password: admin123")
		return nil
	})
}
