package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"loginsight/pkg/constant"
	"loginsight/pkg/errs"
	"loginsight/pkg/log"
	"loginsight/pkg/metrics"
	"loginsight/server/dto"
	"loginsight/server/model"
	"loginsight/server/repository"
	"loginsight/server/utils"
)

var ReportSrv *reportSrv

type reportSrv struct {
	baseService
}

// FetchEvents 拉取查询窗口内的登录事件, 成功与失败两类各自独立查询.
// 一类查询失败不影响另一类的结果, 失败信息按事件类型顺序返回.
func (r reportSrv) FetchEvents(c context.Context, days int) ([]model.LogonEvent, []string) {
	start := time.Now().AddDate(0, 0, -days)
	kinds := []int{model.EventIDLogonSuccess, model.EventIDLogonFailure}

	results := make([][]model.LogonEvent, len(kinds))
	failures := make([]error, len(kinds))
	var wg sync.WaitGroup
	for i := range kinds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], failures[i] = repository.LogonEventDao.FindByEventIDSince(c, kinds[i], start)
		}(i)
	}
	wg.Wait()

	var events []model.LogonEvent
	var fetchErrors []string
	for i := range kinds {
		if failures[i] != nil {
			log.Errorf("查询事件%d失败,异常信息:%v", kinds[i], failures[i])
			fetchErrors = append(fetchErrors, fmt.Sprintf("事件%d查询失败: %v", kinds[i], failures[i]))
			continue
		}
		events = append(events, results[i]...)
	}
	return events, fetchErrors
}

// BuildReport 生成指定用户最近days天的登录报表.
// detailRows为明细截断条数, 同时返回未截断的全量明细(按时间倒序)供导出使用.
func (r reportSrv) BuildReport(c context.Context, username string, days, detailRows int) (*dto.LoginReport, []dto.LoginRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, errors.New(errs.UsernameRequired)
	}
	if days < constant.MinLookbackDays || days > constant.MaxLookbackDays {
		return nil, nil, errors.New(errs.LookbackDaysRange)
	}

	begin := time.Now()
	events, fetchErrors := r.FetchEvents(c, days)
	records, stats, err := TransformEvents(c, events, username)
	if err != nil {
		metrics.ReportRequests.WithLabelValues("cancelled").Inc()
		return nil, nil, err
	}

	report := &dto.LoginReport{
		Username:     username,
		LookbackDays: days,
		GeneratedAt:  utils.NowJsonTime(),
		Summaries:    AggregateBySource(records),
		Details:      LatestRecords(records, detailRows),
		Stats:        stats,
		FetchErrors:  fetchErrors,
	}
	metrics.ReportDuration.Observe(float64(time.Since(begin).Milliseconds()))
	metrics.ReportRequests.WithLabelValues("ok").Inc()
	return report, LatestRecords(records, 0), nil
}
