package config

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"loginsight/pkg/log"
)

// GlobalCfg 全局配置, SetupConfig 后可读
var GlobalCfg = DefaultConfig()

var (
	mu        sync.RWMutex
	listeners []func(*Config)
)

type Config struct {
	Debug  bool   `yaml:"debug"`
	DB     string `yaml:"db"` // mysql | sqlite
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Mysql struct {
		Hostname string `yaml:"hostname"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"mysql"`
	Sqlite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Log struct {
		Dir   string `yaml:"dir"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Retention struct {
		Days int `yaml:"days"`
	} `yaml:"retention"`
	Report struct {
		Cron         string   `yaml:"cron"`
		Usernames    []string `yaml:"usernames"`
		Recipients   []string `yaml:"recipients"`
		LookbackDays int      `yaml:"lookbackDays"`
	} `yaml:"report"`
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
}

func DefaultConfig() *Config {
	c := &Config{}
	c.DB = "mysql"
	c.Server.Addr = ":8088"
	c.Mysql.Hostname = "127.0.0.1"
	c.Mysql.Port = 3306
	c.Sqlite.Path = "loginsight.db"
	c.Log.Dir = "logs"
	c.Log.Level = "info"
	c.Retention.Days = 180
	c.Report.LookbackDays = 30
	c.Admin.Username = "admin"
	return c
}

// SetupConfig 读取配置文件, 文件不存在时使用默认值
func SetupConfig(path string) error {
	cfg, err := load(path)
	if err != nil {
		return err
	}
	mu.Lock()
	GlobalCfg = cfg
	mu.Unlock()
	return nil
}

func load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB != "mysql" && c.DB != "sqlite" {
		return errors.Errorf("unsupported db type: %s", c.DB)
	}
	if c.Retention.Days < 0 {
		return errors.New("retention.days must not be negative")
	}
	if c.Report.LookbackDays < 1 || c.Report.LookbackDays > 365 {
		return errors.Errorf("report.lookbackDays out of range [1,365]: %d", c.Report.LookbackDays)
	}
	return nil
}

// OnChange 注册配置热加载回调
func OnChange(fn func(*Config)) {
	mu.Lock()
	listeners = append(listeners, fn)
	mu.Unlock()
}

// Watch 监听配置文件变更并热加载, 解析失败时保留旧配置
func Watch(path string) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, errors.Wrap(err, "watch config")
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := load(path)
				if err != nil {
					log.WithError(err).Errorf("重新加载配置失败: %v", err.Error())
					continue
				}
				mu.Lock()
				GlobalCfg = cfg
				fns := make([]func(*Config), len(listeners))
				copy(fns, listeners)
				mu.Unlock()
				log.Infof("配置文件已重新加载: %s", path)
				for _, fn := range fns {
					fn(cfg)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Errorf("配置监听异常: %v", err.Error())
			}
		}
	}()
	return watcher.Close, nil
}
