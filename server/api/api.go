package api

import (
	"strings"

	"loginsight/pkg/constant"
	"loginsight/pkg/global"

	"github.com/labstack/echo/v4"
)

type H map[string]interface{}

func Fail(c echo.Context, code int, message string) error {
	return c.JSON(200, H{
		"code":    code,
		"message": message,
	})
}

func FailWithData(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(200, H{
		"code":    code,
		"message": message,
		"data":    data,
	})
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(200, H{
		"code":    1,
		"message": "成功",
		"data":    data,
	})
}

func NotFound(c echo.Context, message string) error {
	return c.JSON(200, H{
		"code":    -1,
		"message": message,
	})
}

func GetToken(c echo.Context) string {
	token := c.Request().Header.Get(constant.Token)
	if len(token) > 0 {
		return token
	}
	return c.QueryParam(constant.Token)
}

func BuildCacheKeyByToken(token string) string {
	return strings.Join([]string{constant.TokenCachePrefix, token}, "")
}

// GetCurrentAccount 取当前登录会话, 未登录时第二个返回值为false
func GetCurrentAccount(c echo.Context) (global.Authorization, bool) {
	token := GetToken(c)
	cacheKey := BuildCacheKeyByToken(token)
	get, b := global.Cache.Get(cacheKey)
	if b {
		return get.(global.Authorization), true
	}
	return global.Authorization{}, false
}
