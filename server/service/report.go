package service

import (
	"context"
	"sort"
	"strings"

	"loginsight/pkg/metrics"
	"loginsight/server/dto"
	"loginsight/server/model"
	"loginsight/server/utils"
)

// 登录报表的纯计算部分: 事件过滤转换、按来源聚合、明细排序截断.
// 这里的函数不访问数据库, 相同输入必定产生相同输出.

// resolveUsername 取事件的登录用户名, 优先TargetUserName, 为空时取SubjectUserName
func resolveUsername(fields map[string]string) string {
	if v := fields[model.FieldTargetUserName]; v != "" {
		return v
	}
	return fields[model.FieldSubjectUserName]
}

// resolveSource 取事件的来源标识, 优先网络地址, 地址缺失或为占位符"-"时取工作站名
func resolveSource(fields map[string]string) string {
	ip := strings.TrimSpace(fields[model.FieldIpAddress])
	if ip == "" || ip == "-" {
		return strings.TrimSpace(fields[model.FieldWorkstationName])
	}
	return ip
}

// acceptedSource 来源标识是否可用, 占位符与本机回环地址视为无来源
func acceptedSource(source string) bool {
	switch source {
	case "", "-", "127.0.0.1", "::1":
		return false
	}
	return true
}

// TransformEvents 将原始事件转换为指定用户的登录记录.
// 用户名忽略大小写精确匹配; 字段表损坏的事件跳过并计数; 无可用来源标识的事件丢弃并计数.
// ctx取消时立即返回错误, 不返回半截结果.
func TransformEvents(c context.Context, events []model.LogonEvent, username string) ([]dto.LoginRecord, dto.TransformStats, error) {
	var stats dto.TransformStats
	records := make([]dto.LoginRecord, 0, len(events))
	for i := range events {
		if err := c.Err(); err != nil {
			return nil, dto.TransformStats{}, err
		}
		stats.Processed++

		fields, err := events[i].FieldMap()
		if err != nil {
			stats.Malformed++
			metrics.MalformedRecords.Inc()
			continue
		}
		if !strings.EqualFold(resolveUsername(fields), username) {
			continue
		}
		source := resolveSource(fields)
		if !acceptedSource(source) {
			stats.NoSource++
			continue
		}

		outcome := dto.OutcomeSuccess
		if events[i].EventID == model.EventIDLogonFailure {
			outcome = dto.OutcomeFailure
		}
		records = append(records, dto.LoginRecord{
			LoginTime:   events[i].LogonTime,
			Username:    resolveUsername(fields),
			SourceId:    source,
			Outcome:     outcome,
			LogonType:   fields[model.FieldLogonType],
			Workstation: fields[model.FieldWorkstationName],
			ProcessName: fields[model.FieldProcessName],
			AuthPackage: fields[model.FieldAuthPackage],
		})
		stats.Matched++
	}
	return records, stats, nil
}

// AggregateBySource 按来源标识聚合登录记录, 结果按总次数降序排列, 次数相同时按来源标识升序
func AggregateBySource(records []dto.LoginRecord) []dto.SourceSummary {
	index := make(map[string]int, len(records))
	summaries := make([]dto.SourceSummary, 0, len(records))
	for i := range records {
		pos, ok := index[records[i].SourceId]
		if !ok {
			pos = len(summaries)
			index[records[i].SourceId] = pos
			summaries = append(summaries, dto.SourceSummary{
				SourceId: records[i].SourceId,
				LastSeen: records[i].LoginTime,
			})
		}
		summaries[pos].Total++
		if records[i].Outcome == dto.OutcomeFailure {
			summaries[pos].Failure++
		} else {
			summaries[pos].Success++
		}
		if records[i].LoginTime.After(summaries[pos].LastSeen.Time) {
			summaries[pos].LastSeen = records[i].LoginTime
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].SourceId < summaries[j].SourceId
	})
	return summaries
}

// LatestRecords 返回按时间倒序排列的记录副本, limit大于0时截断为最近limit条
func LatestRecords(records []dto.LoginRecord, limit int) []dto.LoginRecord {
	sorted := make([]dto.LoginRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LoginTime.After(sorted[j].LoginTime.Time)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// 导出文件与报表邮件使用的表头
var (
	SummaryHeader = []string{"来源地址", "登录总数", "成功次数", "失败次数", "最近时间"}
	DetailHeader  = []string{"登录时间", "用户名", "来源地址", "结果", "登录类型", "工作站", "进程名", "认证方式"}
)

func SummaryRows(summaries []dto.SourceSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for i := range summaries {
		rows = append(rows, utils.Struct2StrArr(summaries[i]))
	}
	return rows
}

func DetailRows(records []dto.LoginRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, utils.Struct2StrArr(records[i]))
	}
	return rows
}

// RecordsCsvHeader 明细CSV文件的表头, 与LoginRecord的json字段名一致
var RecordsCsvHeader = []string{"loginTime", "username", "sourceId", "outcome", "logonType", "workstation", "processName", "authPackage"}

// ExportRecordsCsv 将明细记录写入CSV文件, 记录为空时仅写表头
func ExportRecordsCsv(path string, records []dto.LoginRecord) error {
	return utils.WriteCsvFile(path, RecordsCsvHeader, DetailRows(records))
}
