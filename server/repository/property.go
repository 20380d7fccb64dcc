package repository

import (
	"loginsight/pkg/constant"
	"loginsight/pkg/log"
	"loginsight/server/model"
	"loginsight/server/utils"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	DB *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	propertyRepository = &PropertyRepository{DB: db}
	return propertyRepository
}

func (r PropertyRepository) FindAll() (o []model.Property) {
	if r.DB.Find(&o).Error != nil {
		return nil
	}
	return
}

func (r PropertyRepository) Create(o *model.Property) (err error) {
	err = r.DB.Create(o).Error
	return
}

func (r PropertyRepository) CreateByMap(m map[string]interface{}) (err error) {
	db := r.DB.Model(model.Property{}).Begin()
	for k, v := range m {
		err = db.Create(&model.Property{Name: k, Value: v.(string)}).Error
		if err != nil {
			db.Rollback()
			return
		}
	}
	db.Commit()
	return
}

func (r PropertyRepository) UpdateByName(o *model.Property, name string) error {
	o.Name = name
	db := r.DB.Model(model.Property{}).Begin()
	if err := db.Where("name = ?", name).Delete(model.Property{}).Error; err != nil {
		db.Rollback()
	}
	if err := db.Create(o).Error; err != nil {
		db.Rollback()
	}
	db.Commit()
	return nil
}

func (r PropertyRepository) FindByName(name string) (o model.Property, err error) {
	err = r.DB.Where("name = ?", name).Find(&o).Error
	return
}

func (r PropertyRepository) FindAllMap() map[string]string {
	properties := r.FindAll()
	propertyMap := make(map[string]string)
	for i := range properties {
		propertyMap[properties[i].Name] = properties[i].Value
	}
	return propertyMap
}

func (r PropertyRepository) FindMapByNames(name []string) (map[string]string, error) {
	propertyMap := make(map[string]string)
	for i := range name {
		property, err := r.FindByName(name[i])
		if err == gorm.ErrRecordNotFound {
			continue
		} else if err != nil {
			return nil, err
		}
		propertyMap[property.Name] = property.Value
	}
	return propertyMap, nil
}

func (r PropertyRepository) DeleteByNames(name []string) error {
	return r.DB.Where("name in ?", name).Delete(model.Property{}).Error
}

// GetMailProperty 读取邮件服务配置, 密码落库为密文, 读取时解密
func (r PropertyRepository) GetMailProperty() (model.TestMail, error) {
	var names = []string{constant.MailHost, constant.MailPort, constant.MailUsername, constant.MailPassword}
	var mailConfig model.TestMail
	item, err := r.FindMapByNames(names)
	if nil != err {
		log.Error("获取邮件配置失败: ", err.Error())
		return mailConfig, err
	}
	mailConfig.MailHost = item[constant.MailHost]
	mailConfig.MailPort = item[constant.MailPort]
	mailConfig.MailUsername = item[constant.MailUsername]

	if item[constant.MailPassword] != "" {
		password, err := utils.AesDecryptECB(item[constant.MailPassword], constant.PropertyEncryptionKey)
		if nil != err {
			log.Error("邮件密码解密失败: ", err.Error())
			return mailConfig, err
		}
		mailConfig.MailPassword = password
	}

	return mailConfig, nil
}
