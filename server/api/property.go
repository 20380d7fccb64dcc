package api

import (
	"errors"
	"fmt"

	"loginsight/pkg/constant"
	"loginsight/pkg/log"
	"loginsight/server/model"
	"loginsight/server/repository"
	"loginsight/server/service"
	"loginsight/server/utils"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func PropertyGetEndpoint(c echo.Context) error {
	properties := repository.PropertyDao.FindAllMap()
	return Success(c, properties)
}

// PropertyUpdateEndpoint 修改系统配置, 邮件密码加密后落库
func PropertyUpdateEndpoint(c echo.Context) error {
	var item map[string]interface{}
	if err := c.Bind(&item); err != nil {
		log.Errorf("Bind Error: %v", err)
		return Fail(c, 500, "修改失败")
	}

	for key := range item {
		value := fmt.Sprintf("%v", item[key])
		if value == "" {
			value = "-"
		}
		if key == constant.MailPassword && value != "-" {
			encrypted, err := utils.AesEncryptECB(value, constant.PropertyEncryptionKey)
			if err != nil {
				log.Errorf("邮件密码加密失败,异常信息:%v", err)
				return Fail(c, 500, "修改失败")
			}
			value = encrypted
		}

		property := model.Property{
			Name:  key,
			Value: value,
		}
		if err := c.Validate(property); err != nil {
			return Fail(c, 400, err.Error())
		}

		_, err := repository.PropertyDao.FindByName(key)
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			if err := repository.PropertyDao.Create(&property); err != nil {
				log.Errorf("DB Error: %v", err)
				return Fail(c, 500, "修改失败")
			}
		} else {
			if err := repository.PropertyDao.UpdateByName(&property, key); err != nil {
				log.Errorf("DB Error: %v", err)
				return Fail(c, 500, "修改失败")
			}
		}
	}
	return Success(c, nil)
}

// MailTestEndpoint 按提交的配置发送测试邮件, 密码为空时取已保存的配置
func MailTestEndpoint(c echo.Context) error {
	var item model.TestMail
	if err := c.Bind(&item); err != nil {
		log.Errorf("Bind Error: %v", err)
		return Fail(c, 500, "发送失败")
	}
	if item.MailReceiver == "" {
		return Fail(c, 400, "收件邮箱不能为空")
	}
	if item.MailPassword == "" || item.MailPassword == "-" {
		saved, err := repository.PropertyDao.GetMailProperty()
		if err != nil {
			return Fail(c, 500, "发送失败")
		}
		item.MailPassword = saved.MailPassword
	}

	if err := service.MailSrv.NewSendMail(item.MailHost, item.MailPort, item.MailUsername, item.MailPassword,
		[]string{item.MailReceiver}, "[Loginsight] 测试邮件", "这是一封测试邮件, 证明您的邮件服务配置可用."); err != nil {
		log.Errorf("测试邮件发送失败,异常信息:%v", err)
		return Fail(c, 500, "发送失败: "+err.Error())
	}
	return Success(c, nil)
}
