package api

import (
	"errors"

	"loginsight/pkg/constant"
	"loginsight/pkg/global"
	"loginsight/server/model"
	"loginsight/server/repository"

	"gorm.io/gorm"
)

// InitDBData 初始化数据表与默认配置
func InitDBData() error {
	if err := global.DBConn.AutoMigrate(&model.LogonEvent{}, &model.Property{}); err != nil {
		return err
	}
	return initPropertyDefault()
}

// initPropertyDefault 邮件配置默认置为未配置, 值"-"表示空
func initPropertyDefault() error {
	names := []string{constant.MailHost, constant.MailPort, constant.MailUsername, constant.MailPassword}
	for i := range names {
		property, err := repository.PropertyDao.FindByName(names[i])
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if property.Name != "" {
			continue
		}
		if err := repository.PropertyDao.Create(&model.Property{Name: names[i], Value: "-"}); err != nil {
			return err
		}
	}
	return nil
}
