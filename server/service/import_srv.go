package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"loginsight/pkg/errs"
	"loginsight/pkg/log"
	"loginsight/pkg/metrics"
	"loginsight/server/dto"
	"loginsight/server/model"
	"loginsight/server/repository"
	"loginsight/server/utils"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ImportSrv *importSrv

// 登录事件导入服务: 解析事件查看器导出的CSV文件并入库

type importSrv struct {
	baseService
}

const (
	importBatchSize  = 500
	importMaxWarning = 20
)

// BOM前缀
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeReader 识别BOM并转换为UTF-8文本流, 事件查看器导出的CSV通常带BOM
func decodeReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, _ := br.Peek(3)
	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br
	case bytes.HasPrefix(head, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case bytes.HasPrefix(head, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	}
	return br
}

// 事件时间的常见导出格式
var logonTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	time.RFC3339,
	"2006/01/02 15:04:05",
	"1/2/2006 3:04:05 PM",
}

func parseLogonTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range logonTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法识别的时间格式: %q", value)
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
}

// 表头中事件类型与事件时间两列的别名
var (
	eventIDHeaders   = []string{"eventid", "id"}
	logonTimeHeaders = []string{"timecreated", "logontime", "timegenerated", "dateandtime"}
)

func findColumn(index map[string]int, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if pos, ok := index[alias]; ok {
			return pos, true
		}
	}
	return 0, false
}

// ImportCSV 导入CSV文件中的登录事件.
// 表头行必须包含事件类型列与事件时间列, 其余列原样存入事件字段表;
// 无法解析的行跳过并记录告警, 事件类型不是4624/4625的行跳过.
func (r importSrv) ImportCSV(c context.Context, reader io.Reader) (*dto.ImportResult, error) {
	cr := csv.NewReader(decodeReader(reader))
	// 真实导出文件列数并不总是一致, 列数校验与补齐由下方自行处理
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New(errs.ImportEmptyFile)
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	index := make(map[string]int, len(header))
	for i := range header {
		index[normalizeHeader(header[i])] = i
	}
	eventIDCol, ok := findColumn(index, eventIDHeaders)
	if !ok {
		return nil, fmt.Errorf("表头缺少事件类型列, 需要%v之一", eventIDHeaders)
	}
	timeCol, ok := findColumn(index, logonTimeHeaders)
	if !ok {
		return nil, fmt.Errorf("表头缺少事件时间列, 需要%v之一", logonTimeHeaders)
	}

	result := new(dto.ImportResult)
	warn := func(row int, message string) {
		result.Skipped++
		if len(result.Warnings) < importMaxWarning {
			result.Warnings = append(result.Warnings, fmt.Sprintf("第%d行: %s", row, message))
		}
	}

	var batch []model.LogonEvent
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := repository.LogonEventDao.BatchCreate(c, batch); err != nil {
			return err
		}
		result.Imported += len(batch)
		metrics.EventsIngested.Add(float64(len(batch)))
		batch = batch[:0]
		return nil
	}

	row := 1
	for {
		if err := c.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			warn(row, fmt.Sprintf("解析失败: %v", err))
			continue
		}
		// 列数不足时补空值, 超出表头的列丢弃
		if len(record) < len(header) {
			padded := make([]string, len(header))
			copy(padded, record)
			record = padded
		}

		eventID, err := strconv.Atoi(strings.TrimSpace(record[eventIDCol]))
		if err != nil {
			warn(row, fmt.Sprintf("事件类型无效: %q", record[eventIDCol]))
			continue
		}
		if eventID != model.EventIDLogonSuccess && eventID != model.EventIDLogonFailure {
			warn(row, fmt.Sprintf("忽略事件类型%d", eventID))
			continue
		}
		logonTime, err := parseLogonTime(record[timeCol])
		if err != nil {
			warn(row, err.Error())
			continue
		}

		fields := make(map[string]string, len(header))
		for i := range header {
			if i == eventIDCol || i == timeCol || i >= len(record) {
				continue
			}
			if v := strings.TrimSpace(record[i]); v != "" {
				fields[header[i]] = v
			}
		}

		event := model.LogonEvent{
			ID:        utils.UUID(),
			EventID:   eventID,
			LogonTime: utils.NewJsonTime(logonTime),
		}
		if err := event.SetFields(fields); err != nil {
			warn(row, fmt.Sprintf("字段编码失败: %v", err))
			continue
		}
		batch = append(batch, event)
		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	log.Infof("CSV导入完成, 入库%d条, 跳过%d条", result.Imported, result.Skipped)
	return result, nil
}

// IngestEvents 入库上报的登录事件, 事件时间解析失败时整批拒绝
func (r importSrv) IngestEvents(c context.Context, entries []dto.LogonEventEntry) (int, error) {
	events := make([]model.LogonEvent, 0, len(entries))
	for i := range entries {
		logonTime, err := parseLogonTime(entries[i].LogonTime)
		if err != nil {
			return 0, fmt.Errorf("第%d条事件时间无效: %v", i+1, err)
		}
		event := model.LogonEvent{
			ID:        utils.UUID(),
			EventID:   entries[i].EventID,
			LogonTime: utils.NewJsonTime(logonTime),
		}
		if err := event.SetFields(entries[i].Fields); err != nil {
			return 0, err
		}
		events = append(events, event)
	}
	if err := repository.LogonEventDao.BatchCreate(c, events); err != nil {
		return 0, err
	}
	metrics.EventsIngested.Add(float64(len(events)))
	return len(events), nil
}
