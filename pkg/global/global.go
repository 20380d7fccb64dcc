package global

import (
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"loginsight/server/utils"
)

var Version = "v1.2.0"

// Cache 会话与报表结果缓存
var Cache = cache.New(cache.NoExpiration, 5*time.Minute)

var DBConn *gorm.DB

type Authorization struct {
	Token          string
	Username       string
	LoginTime      utils.JsonTime
	LastActiveTime utils.JsonTime
	LoginAddress   string
}
