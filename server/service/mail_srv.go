package service

import (
	"errors"
	"strconv"

	"loginsight/pkg/errs"
	"loginsight/pkg/log"
	"loginsight/server/model"
	"loginsight/server/repository"

	"gopkg.in/gomail.v2"
)

var MailSrv *mailSrv

type mailSrv struct {
	baseService
}

func mailConfigured(m model.TestMail) bool {
	for _, v := range []string{m.MailHost, m.MailPort, m.MailUsername, m.MailPassword} {
		if v == "" || v == "-" {
			return false
		}
	}
	return true
}

// CheckMail 检查发送邮件的条件
func (r mailSrv) CheckMail() error {
	mailConfig, err := repository.PropertyDao.GetMailProperty()
	if err != nil {
		return err
	}
	if !mailConfigured(mailConfig) {
		return errors.New(errs.MailCheckFail)
	}
	return nil
}

// SendMail 发送邮件 参数1:收件人邮箱 参数2:主题 参数3:正文(html)
func (r mailSrv) SendMail(recipientMailAddr, subject, text string) error {
	if recipientMailAddr == "" {
		return errors.New(errs.MailRecipientIsNull)
	}
	mailConfig, err := repository.PropertyDao.GetMailProperty()
	if err != nil {
		return err
	}
	if !mailConfigured(mailConfig) {
		return errors.New(errs.MailCheckFail)
	}
	if err := r.NewSendMail(mailConfig.MailHost, mailConfig.MailPort, mailConfig.MailUsername, mailConfig.MailPassword,
		[]string{recipientMailAddr}, "[Loginsight] "+subject, text); err != nil {
		log.Errorf("发送邮件异常,异常信息:%v", err)
		return err
	}
	return nil
}

// NewSendMail 基本发送接口, 出错后需排查原因的功能均调用此接口进行错误判断
func (r mailSrv) NewSendMail(host, port, username, password string, to []string, subject, text string) error {
	iport, err := strconv.Atoi(port)
	if nil != err {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "Loginsight <"+username+">")
	m.SetHeader("To", to...)        //  收件人
	m.SetHeader("Subject", subject) //  主题
	m.SetBody("text/html", text)    //  正文

	d := gomail.NewDialer(host, iport, username, password)
	err = d.DialAndSend(m)
	return err
}
