package db

import (
	"attendance-backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.Setting{},
		&models.OTP{},
		&models.RefreshToken{},
		&models.Department{},
		&models.Employee{},
		&models.QRCode{},
		&models.Attendance{},
		&models.LeaveRequest{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
