package env

import (
	"fmt"

	"loginsight/pkg/config"
	"loginsight/pkg/global"
	"loginsight/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func SetupDB() *gorm.DB {
	var logMode logger.Interface
	if config.GlobalCfg.Debug {
		logMode = logger.Default.LogMode(logger.Info)
	} else {
		logMode = logger.Default.LogMode(logger.Silent)
	}

	var err error
	switch config.GlobalCfg.DB {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(config.GlobalCfg.Sqlite.Path), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   logMode,
		})
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.GlobalCfg.Mysql.Username,
			config.GlobalCfg.Mysql.Password,
			config.GlobalCfg.Mysql.Hostname,
			config.GlobalCfg.Mysql.Port,
			config.GlobalCfg.Mysql.Database,
		)
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   logMode,
		})
	}
	if err != nil {
		log.WithError(err).Fatalf("连接数据库异常 Error: %v", err.Error())
	}

	global.DBConn = db
	return db
}

func GetDB() *gorm.DB {
	return db
}
