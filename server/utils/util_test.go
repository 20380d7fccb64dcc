package utils_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loginsight/server/utils"

	"github.com/stretchr/testify/assert"
)

func TestRemoveDuplicatesAndEmpty(t *testing.T) {
	s := []string{"1", "2", "1", "3"}
	s1 := []string{"1", "2", "1", "3", " "}
	s = utils.RemoveDuplicatesAndEmpty(s)
	s1 = utils.RemoveDuplicatesAndEmpty(s1)
	assert.Equal(t, []string{"1", "2", "3"}, s)
	assert.Equal(t, []string{"1", "2", "3"}, s1)
}

func TestJsonTimeMarshal(t *testing.T) {
	jt := utils.NewJsonTime(time.Date(2023, 1, 2, 15, 4, 5, 0, time.Local))
	b, err := json.Marshal(jt)
	assert.NoError(t, err)
	assert.Equal(t, `"2023-01-02 15:04:05"`, string(b))
}

func TestString2Time(t *testing.T) {
	assert.Equal(t, utils.String2Time("2020-01-01"), utils.String2Time("2020-01-01 00:00:00"))
	assert.Equal(t, utils.String2Time("2020-01-01 01"), utils.String2Time("2020-01-01 01:00:00"))
	assert.Equal(t, utils.String2Time("2020-01-01 01:02"), utils.String2Time("2020-01-01 01:02:00"))
	assert.True(t, utils.String2Time("").IsZero())
	assert.True(t, utils.String2Time("not a time").IsZero())
}

func TestAesEncryptDecryptECB(t *testing.T) {
	key := "qwertyuiopasdfghqwertyuiopasdfgh"
	encrypted, err := utils.AesEncryptECB("Hello loginsight", key)
	assert.NoError(t, err)
	decrypted, err := utils.AesDecryptECB(encrypted, key)
	assert.NoError(t, err)
	assert.Equal(t, "Hello loginsight", decrypted)
}

func TestIsIP(t *testing.T) {
	assert.True(t, utils.IsIP("192.168.28.180"))
	assert.True(t, utils.IsIP("::1"))
	assert.False(t, utils.IsIP("WIN-DC01"))
	assert.False(t, utils.IsIP(""))
}

func TestStruct2StrArr(t *testing.T) {
	type row struct {
		Name  string
		Total int
		Seen  utils.JsonTime
	}
	r := row{Name: "10.0.0.5", Total: 3, Seen: utils.NewJsonTime(time.Date(2023, 1, 2, 15, 4, 5, 0, time.Local))}
	arr := utils.Struct2StrArr(r)
	assert.Equal(t, []string{"10.0.0.5", "3", "2023-01-02 15:04:05"}, arr)
}

func TestWriteCsvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	header := []string{"loginTime", "username", "sourceId"}
	content := [][]string{
		{"2023-01-02 15:04:05", "admin", "192.168.28.180"},
		{"2023-01-02 15:05:06", "admin", "192.168.28.120"},
	}
	err := utils.WriteCsvFile(path, header, content)
	assert.NoError(t, err)
	b, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "loginTime,username,sourceId\n2023-01-02 15:04:05,admin,192.168.28.180\n2023-01-02 15:05:06,admin,192.168.28.120\n", string(b))

	// 目录下不残留临时文件
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCsvFileEmptyContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	err := utils.WriteCsvFile(path, []string{"loginTime", "username", "sourceId"}, nil)
	assert.NoError(t, err)
	b, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "loginTime,username,sourceId\n", string(b))
}

func TestWriteCsvFileUnwritable(t *testing.T) {
	err := utils.WriteCsvFile(filepath.Join(t.TempDir(), "no-such-dir", "out.csv"), []string{"a"}, nil)
	assert.Error(t, err)
}

func TestCreateExcelFile(t *testing.T) {
	header := []string{"来源地址", "总次数", "成功", "失败", "最近时间"}
	content := [][]string{
		{"192.168.28.180", "3", "2", "1", "2023-01-02 15:04:05"},
	}
	f, err := utils.CreateExcelFile("登录报表", header, content)
	assert.NoError(t, err)
	assert.NotNil(t, f)

	_, err = utils.CreateExcelFile("登录报表", []string{"一列"}, content)
	assert.Error(t, err)
}
