package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"loginsight/pkg/config"
	"loginsight/pkg/constant"
	"loginsight/pkg/log"
	"loginsight/pkg/metrics"
	"loginsight/server/repository"
	"loginsight/server/utils"

	"github.com/robfig/cron/v3"
)

var SchedulerSrv *schedulerSrv

// 定时任务服务: 过期事件清理与周期报表邮件

type schedulerSrv struct {
	baseService
	job *cron.Cron
}

func NewSchedulerSrv() *schedulerSrv {
	return &schedulerSrv{
		job: cron.New(),
	}
}

// SetupRun 启动定时任务, 配置热加载后按新配置重建任务
func (p *schedulerSrv) SetupRun() {
	p.schedule(config.GlobalCfg)
	p.job.Start()
	config.OnChange(func(cfg *config.Config) {
		p.Reschedule(cfg)
	})
}

// Reschedule 移除全部任务后按新配置重建
func (p *schedulerSrv) Reschedule(cfg *config.Config) {
	for _, e := range p.job.Entries() {
		p.job.Remove(e.ID)
	}
	p.schedule(cfg)
}

func (p *schedulerSrv) schedule(cfg *config.Config) {
	if _, err := p.job.AddFunc("@daily", p.PruneExpiredEvents); err != nil {
		log.Errorf("注册清理任务失败,异常信息:%v", err)
	}
	if cfg.Report.Cron == "" {
		return
	}
	if _, err := p.job.AddFunc(cfg.Report.Cron, p.SendScheduledReports); err != nil {
		log.Errorf("注册报表任务失败,cron表达式: %v,异常信息:%v", cfg.Report.Cron, err)
	}
}

// Stop 停止全部定时任务
func (p *schedulerSrv) Stop() {
	ctx := p.job.Stop()
	<-ctx.Done()
}

// PruneExpiredEvents 清理保留期之外的登录事件, 保留天数为0时不清理
func (p *schedulerSrv) PruneExpiredEvents() {
	days := config.GlobalCfg.Retention.Days
	if days <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := repository.LogonEventDao.DeleteOlderThan(context.TODO(), cutoff)
	if err != nil {
		log.Errorf("清理过期事件失败,异常信息:%v", err)
		return
	}
	if n > 0 {
		metrics.EventsPruned.Add(float64(n))
		log.Infof("清理过期登录事件%d条, 截止时间: %v", n, cutoff.Format("2006-01-02 15:04:05"))
	}
}

// SendScheduledReports 为配置中的每个用户生成报表并发送给全部收件人
func (p *schedulerSrv) SendScheduledReports() {
	usernames := utils.RemoveDuplicatesAndEmpty(config.GlobalCfg.Report.Usernames)
	recipients := utils.RemoveDuplicatesAndEmpty(config.GlobalCfg.Report.Recipients)
	if len(usernames) == 0 || len(recipients) == 0 {
		return
	}
	if err := MailSrv.CheckMail(); err != nil {
		log.Errorf("周期报表未发送,异常信息:%v", err)
		return
	}

	days := config.GlobalCfg.Report.LookbackDays
	for _, username := range usernames {
		report, _, err := ReportSrv.BuildReport(context.TODO(), username, days, constant.ConsoleDetailRows)
		if err != nil {
			log.Errorf("生成用户%v报表失败,异常信息:%v", username, err)
			continue
		}
		title := fmt.Sprintf("用户%v最近%d天登录报表", report.Username, report.LookbackDays)
		reader, err := utils.ExportHtml(title, SummaryHeader, DetailHeader, SummaryRows(report.Summaries), DetailRows(report.Details))
		if err != nil {
			log.Errorf("渲染用户%v报表失败,异常信息:%v", username, err)
			continue
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			log.Errorf("渲染用户%v报表失败,异常信息:%v", username, err)
			continue
		}
		for _, recipient := range recipients {
			if err := MailSrv.SendMail(recipient, title, string(body)); err != nil {
				log.Errorf("发送用户%v报表至%v失败,异常信息:%v", username, recipient, err)
			}
		}
	}
}
