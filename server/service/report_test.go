package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"loginsight/pkg/config"
	"loginsight/server/dto"
	"loginsight/server/model"
	"loginsight/server/repository"
	"loginsight/server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func makeEvent(t *testing.T, eventID int, logonTime time.Time, fields map[string]string) model.LogonEvent {
	t.Helper()
	event := model.LogonEvent{
		ID:        utils.UUID(),
		EventID:   eventID,
		LogonTime: utils.NewJsonTime(logonTime),
	}
	require.NoError(t, event.SetFields(fields))
	return event
}

func TestTransformEventsUsernameMatch(t *testing.T) {
	now := time.Now()
	events := []model.LogonEvent{
		makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName: "JDoe",
			model.FieldIpAddress:      "10.1.1.1",
		}),
		makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName: "someone.else",
			model.FieldIpAddress:      "10.1.1.2",
		}),
		// TargetUserName为空时回退SubjectUserName
		makeEvent(t, model.EventIDLogonFailure, now, map[string]string{
			model.FieldSubjectUserName: "JDOE",
			model.FieldIpAddress:       "10.1.1.3",
		}),
		// 部分匹配不算命中
		makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName: "jdoe2",
			model.FieldIpAddress:      "10.1.1.4",
		}),
	}

	records, stats, err := TransformEvents(context.Background(), events, "jdoe")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "10.1.1.1", records[0].SourceId)
	assert.Equal(t, dto.OutcomeSuccess, records[0].Outcome)
	assert.Equal(t, "10.1.1.3", records[1].SourceId)
	assert.Equal(t, dto.OutcomeFailure, records[1].Outcome)
	assert.Equal(t, 4, stats.Processed)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 0, stats.Malformed)
	assert.Equal(t, 0, stats.NoSource)
}

func TestTransformEventsSourceFallback(t *testing.T) {
	now := time.Now()
	events := []model.LogonEvent{
		// 地址为占位符时回退工作站名
		makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName:  "jdoe",
			model.FieldIpAddress:       "-",
			model.FieldWorkstationName: "WS01",
		}),
		// 地址为空白时回退工作站名
		makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName:  "jdoe",
			model.FieldIpAddress:       "   ",
			model.FieldWorkstationName: "WS02",
		}),
	}

	records, stats, err := TransformEvents(context.Background(), events, "jdoe")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "WS01", records[0].SourceId)
	assert.Equal(t, "WS02", records[1].SourceId)
	assert.Equal(t, 2, stats.Matched)
}

func TestTransformEventsDropsUnusableSources(t *testing.T) {
	now := time.Now()
	unusable := []map[string]string{
		{model.FieldTargetUserName: "jdoe", model.FieldIpAddress: "127.0.0.1"},
		{model.FieldTargetUserName: "jdoe", model.FieldIpAddress: "::1"},
		{model.FieldTargetUserName: "jdoe", model.FieldIpAddress: "-"},
		{model.FieldTargetUserName: "jdoe"},
		{model.FieldTargetUserName: "jdoe", model.FieldIpAddress: " ", model.FieldWorkstationName: "  "},
		{model.FieldTargetUserName: "jdoe", model.FieldWorkstationName: "127.0.0.1"},
	}
	var events []model.LogonEvent
	for _, fields := range unusable {
		events = append(events, makeEvent(t, model.EventIDLogonSuccess, now, fields))
	}

	records, stats, err := TransformEvents(context.Background(), events, "jdoe")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, len(unusable), stats.Processed)
	assert.Equal(t, 0, stats.Matched)
	assert.Equal(t, len(unusable), stats.NoSource)
}

func TestTransformEventsSkipsMalformed(t *testing.T) {
	now := time.Now()
	events := []model.LogonEvent{
		{
			ID:        utils.UUID(),
			EventID:   model.EventIDLogonSuccess,
			LogonTime: utils.NewJsonTime(now),
			Fields:    []byte("not-a-field-table"),
		},
		makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.1.1.1",
		}),
	}

	records, stats, err := TransformEvents(context.Background(), events, "jdoe")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, 1, stats.Matched)
}

func TestTransformEventsCancelled(t *testing.T) {
	now := time.Now()
	var events []model.LogonEvent
	for i := 0; i < 10; i++ {
		events = append(events, makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.1.1.1",
		}))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, stats, err := TransformEvents(ctx, events, "jdoe")
	require.ErrorIs(t, err, context.Canceled)
	// 取消时不返回半截结果
	assert.Nil(t, records)
	assert.Equal(t, dto.TransformStats{}, stats)
}

func TestAggregateBySource(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	records := []dto.LoginRecord{
		{SourceId: "10.1.1.1", Outcome: dto.OutcomeSuccess, LoginTime: utils.NewJsonTime(now.Add(-3 * time.Hour))},
		{SourceId: "10.1.1.1", Outcome: dto.OutcomeFailure, LoginTime: utils.NewJsonTime(now.Add(-1 * time.Hour))},
		{SourceId: "10.1.1.1", Outcome: dto.OutcomeSuccess, LoginTime: utils.NewJsonTime(now.Add(-2 * time.Hour))},
		{SourceId: "WS01", Outcome: dto.OutcomeSuccess, LoginTime: utils.NewJsonTime(now.Add(-5 * time.Hour))},
	}

	summaries := AggregateBySource(records)
	require.Len(t, summaries, 2)

	assert.Equal(t, "10.1.1.1", summaries[0].SourceId)
	assert.Equal(t, 3, summaries[0].Total)
	assert.Equal(t, 2, summaries[0].Success)
	assert.Equal(t, 1, summaries[0].Failure)
	// 最近时间取该来源的最大事件时间
	assert.Equal(t, now.Add(-1*time.Hour).Format("2006-01-02 15:04:05"), summaries[0].LastSeen.Format("2006-01-02 15:04:05"))

	assert.Equal(t, "WS01", summaries[1].SourceId)
	assert.Equal(t, 1, summaries[1].Total)

	for i := range summaries {
		assert.Equal(t, summaries[i].Total, summaries[i].Success+summaries[i].Failure)
	}
}

func TestTransformAggregateLoopbackScenario(t *testing.T) {
	now := time.Now()
	events := []model.LogonEvent{
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-3*time.Hour), map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.0.0.5",
		}),
		makeEvent(t, model.EventIDLogonFailure, now.Add(-2*time.Hour), map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.0.0.5",
		}),
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-1*time.Hour), map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "127.0.0.1",
		}),
	}

	records, stats, err := TransformEvents(context.Background(), events, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NoSource)

	summaries := AggregateBySource(records)
	require.Len(t, summaries, 1)
	assert.Equal(t, "10.0.0.5", summaries[0].SourceId)
	assert.Equal(t, 2, summaries[0].Total)
	assert.Equal(t, 1, summaries[0].Success)
	assert.Equal(t, 1, summaries[0].Failure)
}

func TestAggregateBySourceTieBreak(t *testing.T) {
	now := utils.NowJsonTime()
	records := []dto.LoginRecord{
		{SourceId: "10.2.2.2", Outcome: dto.OutcomeSuccess, LoginTime: now},
		{SourceId: "10.1.1.1", Outcome: dto.OutcomeSuccess, LoginTime: now},
		{SourceId: "10.3.3.3", Outcome: dto.OutcomeSuccess, LoginTime: now},
	}

	summaries := AggregateBySource(records)
	require.Len(t, summaries, 3)
	// 次数相同时按来源标识升序
	assert.Equal(t, "10.1.1.1", summaries[0].SourceId)
	assert.Equal(t, "10.2.2.2", summaries[1].SourceId)
	assert.Equal(t, "10.3.3.3", summaries[2].SourceId)
}

func TestLatestRecordsTruncate(t *testing.T) {
	base := time.Now().Add(-40 * 24 * time.Hour)
	var records []dto.LoginRecord
	for i := 0; i < 1500; i++ {
		records = append(records, dto.LoginRecord{
			SourceId:  fmt.Sprintf("10.0.%d.%d", i/250, i%250),
			Outcome:   dto.OutcomeSuccess,
			LoginTime: utils.NewJsonTime(base.Add(time.Duration(i) * time.Minute)),
		})
	}

	grid := LatestRecords(records, 1000)
	require.Len(t, grid, 1000)
	console := LatestRecords(records, 50)
	require.Len(t, console, 50)
	all := LatestRecords(records, 0)
	require.Len(t, all, 1500)

	// 保留的是最新的记录, 按时间倒序
	assert.Equal(t, records[1499].LoginTime.Time, grid[0].LoginTime.Time)
	assert.Equal(t, records[500].LoginTime.Time, grid[999].LoginTime.Time)
	for i := 1; i < len(grid); i++ {
		assert.False(t, grid[i].LoginTime.After(grid[i-1].LoginTime.Time))
	}

	// 原切片不被修改
	assert.Equal(t, base, records[0].LoginTime.Time)
}

func TestTransformAggregateIdempotent(t *testing.T) {
	now := time.Now()
	events := []model.LogonEvent{
		makeEvent(t, model.EventIDLogonSuccess, now, map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.1.1.1",
		}),
		makeEvent(t, model.EventIDLogonFailure, now.Add(-time.Hour), map[string]string{
			model.FieldTargetUserName:  "jdoe",
			model.FieldIpAddress:       "-",
			model.FieldWorkstationName: "WS01",
		}),
	}

	first, firstStats, err := TransformEvents(context.Background(), events, "jdoe")
	require.NoError(t, err)
	second, secondStats, err := TransformEvents(context.Background(), events, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, firstStats, secondStats)
	assert.Equal(t, AggregateBySource(first), AggregateBySource(second))
}

func setupTestDB(t *testing.T, migrate bool) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	if migrate {
		require.NoError(t, db.AutoMigrate(&model.LogonEvent{}, &model.Property{}))
	}
	config.GlobalCfg.DB = "sqlite"
	repository.SetupRepository(db)
	ReportSrv = new(reportSrv)
	ImportSrv = new(importSrv)
}

func TestBuildReportEndToEnd(t *testing.T) {
	setupTestDB(t, true)
	now := time.Now()

	events := []model.LogonEvent{
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-2*time.Hour), map[string]string{
			model.FieldTargetUserName: "JDoe",
			model.FieldIpAddress:      "10.1.1.1",
			model.FieldLogonType:      "10",
		}),
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-26*time.Hour), map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.1.1.1",
		}),
		makeEvent(t, model.EventIDLogonFailure, now.Add(-1*time.Hour), map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.1.1.1",
		}),
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-3*time.Hour), map[string]string{
			model.FieldTargetUserName:  "jdoe",
			model.FieldIpAddress:       "-",
			model.FieldWorkstationName: "WS01",
		}),
		// 回环地址被丢弃
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-4*time.Hour), map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "127.0.0.1",
		}),
		// 其他用户
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-5*time.Hour), map[string]string{
			model.FieldTargetUserName: "mallory",
			model.FieldIpAddress:      "10.9.9.9",
		}),
		// 查询窗口之外
		makeEvent(t, model.EventIDLogonSuccess, now.Add(-31*24*time.Hour), map[string]string{
			model.FieldTargetUserName: "jdoe",
			model.FieldIpAddress:      "10.1.1.1",
		}),
	}
	require.NoError(t, repository.LogonEventDao.BatchCreate(context.Background(), events))

	r := new(reportSrv)
	report, records, err := r.BuildReport(context.Background(), "JDOE", 30, 2)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Empty(t, report.FetchErrors)
	assert.Equal(t, "JDOE", report.Username)
	assert.Equal(t, 30, report.LookbackDays)

	require.Len(t, report.Summaries, 2)
	assert.Equal(t, "10.1.1.1", report.Summaries[0].SourceId)
	assert.Equal(t, 3, report.Summaries[0].Total)
	assert.Equal(t, 2, report.Summaries[0].Success)
	assert.Equal(t, 1, report.Summaries[0].Failure)
	assert.Equal(t, "WS01", report.Summaries[1].SourceId)

	// 明细截断为最近2条, 全量列表不截断
	require.Len(t, report.Details, 2)
	assert.Equal(t, "10.1.1.1", report.Details[0].SourceId)
	assert.Equal(t, dto.OutcomeFailure, report.Details[0].Outcome)
	assert.Len(t, records, 4)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].LoginTime.After(records[i-1].LoginTime.Time))
	}

	assert.Equal(t, 6, report.Stats.Processed)
	assert.Equal(t, 4, report.Stats.Matched)
	assert.Equal(t, 1, report.Stats.NoSource)
	assert.Equal(t, 0, report.Stats.Malformed)
}

func TestBuildReportValidation(t *testing.T) {
	r := new(reportSrv)

	_, _, err := r.BuildReport(context.Background(), "  ", 30, 50)
	require.Error(t, err)

	_, _, err = r.BuildReport(context.Background(), "jdoe", 0, 50)
	require.Error(t, err)

	_, _, err = r.BuildReport(context.Background(), "jdoe", 366, 50)
	require.Error(t, err)
}

func TestBuildReportFetchErrors(t *testing.T) {
	// 不建表, 两类事件查询均失败
	setupTestDB(t, false)

	r := new(reportSrv)
	report, records, err := r.BuildReport(context.Background(), "jdoe", 30, 50)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Len(t, report.FetchErrors, 2)
	assert.Empty(t, report.Summaries)
	assert.Empty(t, records)
}

func TestExportRecordsCsvRows(t *testing.T) {
	now := utils.NowJsonTime()
	rows := DetailRows([]dto.LoginRecord{
		{LoginTime: now, Username: "jdoe", SourceId: "10.1.1.1", Outcome: dto.OutcomeSuccess, LogonType: "3"},
	})
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(RecordsCsvHeader))
	assert.Equal(t, "jdoe", rows[0][1])
	assert.Equal(t, "Success", rows[0][3])
}
