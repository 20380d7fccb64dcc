package repository

import (
	"gorm.io/gorm"
)

var (
	LogonEventDao *LogonEventRepository
	PropertyDao   *PropertyRepository
)

func SetupRepository(db *gorm.DB) {
	LogonEventDao = NewLogonEventRepository(db)
	PropertyDao = NewPropertyRepository(db)
}
