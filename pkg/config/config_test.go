package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "mysql", cfg.DB)
	assert.Equal(t, ":8088", cfg.Server.Addr)
	assert.Equal(t, 180, cfg.Retention.Days)
	assert.Equal(t, 30, cfg.Report.LookbackDays)
	assert.Equal(t, "admin", cfg.Admin.Username)
	require.NoError(t, cfg.validate())
}

func TestSetupConfigMissingFile(t *testing.T) {
	// 配置文件不存在时使用默认值
	require.NoError(t, SetupConfig(filepath.Join(t.TempDir(), "nope.yml")))
	assert.Equal(t, "mysql", GlobalCfg.DB)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loginsight.yml")
	data := `
db: sqlite
debug: true
server:
  addr: ":9000"
sqlite:
  path: /tmp/loginsight-test.db
retention:
  days: 90
report:
  cron: "0 8 * * *"
  usernames: [jdoe, admin]
  recipients: [sec@example.com]
  lookbackDays: 7
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB)
	assert.True(t, cfg.Debug)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/loginsight-test.db", cfg.Sqlite.Path)
	assert.Equal(t, 90, cfg.Retention.Days)
	assert.Equal(t, "0 8 * * *", cfg.Report.Cron)
	assert.Equal(t, []string{"jdoe", "admin"}, cfg.Report.Usernames)
	assert.Equal(t, 7, cfg.Report.LookbackDays)
	// 未出现的字段保持默认值
	assert.Equal(t, 3306, cfg.Mysql.Port)
}

func TestLoadInvalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"bad-db", "db: postgres\n"},
		{"bad-retention", "retention:\n  days: -1\n"},
		{"bad-lookback-low", "report:\n  lookbackDays: 0\n"},
		{"bad-lookback-high", "report:\n  lookbackDays: 366\n"},
		{"bad-yaml", "db: [unterminated\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "loginsight.yml")
			require.NoError(t, os.WriteFile(path, []byte(tc.data), 0644))
			_, err := load(path)
			require.Error(t, err)
		})
	}
}
