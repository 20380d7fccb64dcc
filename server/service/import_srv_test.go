package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"loginsight/server/dto"
	"loginsight/server/model"
	"loginsight/server/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utf16leBytes(s string) []byte {
	buf := []byte{0xFF, 0xFE}
	for _, r := range s {
		buf = append(buf, byte(r), byte(r>>8))
	}
	return buf
}

func utf16beBytes(s string) []byte {
	buf := []byte{0xFE, 0xFF}
	for _, r := range s {
		buf = append(buf, byte(r>>8), byte(r))
	}
	return buf
}

func TestDecodeReader(t *testing.T) {
	plain := "Id,TimeCreated\n4624,2024-01-02 03:04:05\n"

	cases := []struct {
		name  string
		input []byte
	}{
		{"plain-utf8", []byte(plain)},
		{"utf8-bom", append([]byte{0xEF, 0xBB, 0xBF}, plain...)},
		{"utf16-le", utf16leBytes(plain)},
		{"utf16-be", utf16beBytes(plain)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := io.ReadAll(decodeReader(bytes.NewReader(tc.input)))
			require.NoError(t, err)
			assert.Equal(t, plain, string(decoded))
		})
	}
}

func TestParseLogonTime(t *testing.T) {
	for _, value := range []string{
		"2024-01-02 03:04:05",
		"2024-01-02 03:04:05.123",
		"2024-01-02T03:04:05+08:00",
		"2024/01/02 03:04:05",
		"1/2/2024 3:04:05 AM",
	} {
		parsed, err := parseLogonTime(value)
		require.NoError(t, err, value)
		assert.Equal(t, 2024, parsed.Year())
	}

	_, err := parseLogonTime("not a time")
	require.Error(t, err)
}

func TestImportCSV(t *testing.T) {
	setupTestDB(t, true)

	csvData := strings.Join([]string{
		"TimeCreated,Id,TargetUserName,IpAddress,WorkstationName",
		"2024-03-01 10:00:00,4624,jdoe,10.1.1.1,WS01",
		"2024-03-01 10:05:00,4625,jdoe,10.1.1.1,WS01",
		// 非登录事件被忽略
		"2024-03-01 10:06:00,4672,jdoe,10.1.1.1,WS01",
		// 时间无法解析
		"bogus,4624,jdoe,10.1.1.1,WS01",
		// 列数不足时补空值, 事件类型缺失
		"2024-03-01 10:07:00",
	}, "\n")

	result, err := ImportSrv.ImportCSV(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, result.Warnings, 3)

	total, err := repository.LogonEventDao.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// 除事件类型与时间外的列存入字段表
	events, err := repository.LogonEventDao.FindByEventIDSince(context.Background(), model.EventIDLogonSuccess, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	require.Len(t, events, 1)
	fields, err := events[0].FieldMap()
	require.NoError(t, err)
	assert.Equal(t, "jdoe", fields[model.FieldTargetUserName])
	assert.Equal(t, "10.1.1.1", fields[model.FieldIpAddress])
	assert.Equal(t, "WS01", fields[model.FieldWorkstationName])
	assert.Equal(t, "jdoe", events[0].Username)
}

func TestImportCSVUtf16(t *testing.T) {
	setupTestDB(t, true)

	csvData := "TimeCreated,Id,TargetUserName,IpAddress\n2024-03-01 10:00:00,4624,jdoe,10.1.1.1\n"
	result, err := ImportSrv.ImportCSV(context.Background(), bytes.NewReader(utf16leBytes(csvData)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)
}

func TestImportCSVHeaderErrors(t *testing.T) {
	setupTestDB(t, true)

	_, err := ImportSrv.ImportCSV(context.Background(), strings.NewReader(""))
	require.Error(t, err)

	_, err = ImportSrv.ImportCSV(context.Background(), strings.NewReader("a,b,c\n1,2,3\n"))
	require.Error(t, err)

	_, err = ImportSrv.ImportCSV(context.Background(), strings.NewReader("Id,Username\n4624,jdoe\n"))
	require.Error(t, err)
}

func TestIngestEvents(t *testing.T) {
	setupTestDB(t, true)

	entries := []dto.LogonEventEntry{
		{
			EventID:   model.EventIDLogonSuccess,
			LogonTime: "2024-03-01 10:00:00",
			Fields: map[string]string{
				model.FieldTargetUserName: "jdoe",
				model.FieldIpAddress:      "10.1.1.1",
			},
		},
	}
	count, err := ImportSrv.IngestEvents(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	total, err := repository.LogonEventDao.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// 时间无效时整批拒绝
	entries[0].LogonTime = "bogus"
	_, err = ImportSrv.IngestEvents(context.Background(), entries)
	require.Error(t, err)
	total, err = repository.LogonEventDao.CountAll()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
