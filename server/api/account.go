package api

import (
	"crypto/subtle"
	"strings"

	"loginsight/pkg/config"
	"loginsight/pkg/constant"
	"loginsight/pkg/global"
	"loginsight/pkg/log"
	"loginsight/server/utils"

	"github.com/labstack/echo/v4"
)

type LoginAccount struct {
	Username string `json:"username" label:"[用户名]" validate:"required,max=64"`
	Password string `json:"password" label:"[密码]" validate:"required,max=64"`
}

// LoginEndpoint 管理员登录, 账号密码来自配置文件
func LoginEndpoint(c echo.Context) error {
	var loginAccount LoginAccount
	if err := c.Bind(&loginAccount); err != nil {
		log.Errorf("Bind Error: %v", err)
		return err
	}
	if err := c.Validate(loginAccount); err != nil {
		return Fail(c, 400, err.Error())
	}

	loginAccount.Username = strings.TrimSpace(loginAccount.Username)
	admin := config.GlobalCfg.Admin
	nameOk := subtle.ConstantTimeCompare([]byte(loginAccount.Username), []byte(admin.Username)) == 1
	passOk := subtle.ConstantTimeCompare([]byte(loginAccount.Password), []byte(admin.Password)) == 1
	if admin.Password == "" || !nameOk || !passOk {
		log.Warnf("登录失败, 用户名: %v, 来源地址: %v", loginAccount.Username, c.RealIP())
		return NotFound(c, "用户名或密码错误")
	}

	token := strings.Join([]string{utils.UUID(), utils.UUID(), utils.UUID(), utils.UUID()}, "")
	authorization := global.Authorization{
		Token:          token,
		Username:       loginAccount.Username,
		LoginTime:      utils.NowJsonTime(),
		LastActiveTime: utils.NowJsonTime(),
		LoginAddress:   c.RealIP(),
	}
	global.Cache.Set(BuildCacheKeyByToken(token), authorization, constant.SessionOvertime)
	log.Infof("用户%v登录成功, 来源地址: %v", loginAccount.Username, c.RealIP())

	return Success(c, token)
}

func LogoutEndpoint(c echo.Context) error {
	token := GetToken(c)
	cacheKey := BuildCacheKeyByToken(token)
	global.Cache.Delete(cacheKey)
	return Success(c, nil)
}

// InfoEndpoint 当前登录会话信息
func InfoEndpoint(c echo.Context) error {
	account, found := GetCurrentAccount(c)
	if !found {
		return Fail(c, 401, "您的登录信息已失效,请重新登录后再试.")
	}
	return Success(c, H{
		"username":       account.Username,
		"loginTime":      account.LoginTime,
		"lastActiveTime": account.LastActiveTime,
		"loginAddress":   account.LoginAddress,
	})
}
