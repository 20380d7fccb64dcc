package api

import (
	"fmt"
	"strings"

	"loginsight/pkg/constant"
	"loginsight/pkg/global"
	"loginsight/server/utils"

	"github.com/labstack/echo/v4"
)

func ErrorHandler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {

		if err := next(c); err != nil {

			if he, ok := err.(*echo.HTTPError); ok {
				message := fmt.Sprintf("%v", he.Message)
				return Fail(c, he.Code, message)
			}

			return Fail(c, 0, err.Error())
		}
		return nil
	}
}

// 免认证路径前缀
var anonymousUrls = []string{"/login", "/healthz", "/metrics"}

func Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {

		uri := c.Request().RequestURI
		if uri == "/" || strings.HasPrefix(uri, "/#") {
			return next(c)
		}
		for i := range anonymousUrls {
			if strings.HasPrefix(uri, anonymousUrls[i]) {
				return next(c)
			}
		}

		token := GetToken(c)
		cacheKey := BuildCacheKeyByToken(token)
		auth, found := global.Cache.Get(cacheKey)
		if !found {
			return Fail(c, 401, "您的登录信息已失效,请重新登录后再试.")
		}

		// 会话续期
		authorization := auth.(global.Authorization)
		authorization.LastActiveTime = utils.NowJsonTime()
		global.Cache.Set(cacheKey, authorization, constant.SessionOvertime)

		return next(c)
	}
}
