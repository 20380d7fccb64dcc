package repository

import (
	"context"
	"time"

	"loginsight/pkg/config"
	"loginsight/server/dto"
	"loginsight/server/model"

	"gorm.io/gorm"
)

type LogonEventRepository struct {
	DB *gorm.DB
}

func NewLogonEventRepository(db *gorm.DB) *LogonEventRepository {
	logonEventRepository = &LogonEventRepository{DB: db}
	return logonEventRepository
}

// FindByEventIDSince 查询时间窗口内某一事件类型的全部事件, 不保证顺序
func (r LogonEventRepository) FindByEventIDSince(c context.Context, eventID int, start time.Time) (o []model.LogonEvent, err error) {
	err = r.DB.WithContext(c).Where("event_id = ? and logon_time >= ?", eventID, start).Find(&o).Error
	return
}

// Find 列表检索, 按事件时间倒序
func (r LogonEventRepository) Find(c context.Context, auto, username, sourceIp, eventId, from, to string, pageIndex, pageSize int) (o []model.LogonEventForPage, total int64, err error) {
	db := r.DB.WithContext(c).Table("logon_events").Select("logon_events.id, logon_events.event_id, logon_events.logon_time, logon_events.username, logon_events.source_ip")

	if username != "" {
		db = db.Where("logon_events.username like ?", "%"+username+"%")
	}

	if sourceIp != "" {
		db = db.Where("logon_events.source_ip like ?", "%"+sourceIp+"%")
	}

	if eventId != "" {
		db = db.Where("logon_events.event_id = ?", eventId)
	}

	if from != "" && to != "" {
		db = db.Where("logon_events.logon_time between ? and ?", from, to)
	}

	if auto != "" {
		db = db.Where("logon_events.username like ? OR logon_events.source_ip like ?", "%"+auto+"%", "%"+auto+"%")
	}

	err = db.Count(&total).Error
	if err != nil {
		return
	}

	err = db.Order("logon_events.logon_time desc").Offset((pageIndex - 1) * pageSize).Limit(pageSize).Find(&o).Error
	if o == nil {
		o = make([]model.LogonEventForPage, 0)
	}
	return
}

// BatchCreate 批量入库
func (r LogonEventRepository) BatchCreate(c context.Context, o []model.LogonEvent) error {
	return r.DB.WithContext(c).CreateInBatches(o, 200).Error
}

func (r LogonEventRepository) CountAll() (total int64, err error) {
	err = r.DB.Model(model.LogonEvent{}).Count(&total).Error
	return
}

func (r LogonEventRepository) CountByEventID(eventID int) (total int64, err error) {
	err = r.DB.Model(model.LogonEvent{}).Where("event_id = ?", eventID).Count(&total).Error
	return
}

// OldestLogonTime 最早事件时间
func (r LogonEventRepository) OldestLogonTime() (t time.Time, err error) {
	var o model.LogonEvent
	err = r.DB.Order("logon_time asc").First(&o).Error
	if err != nil {
		return
	}
	return o.LogonTime.Time, nil
}

// DeleteOlderThan 删除早于指定时间的事件, 返回删除条数
func (r LogonEventRepository) DeleteOlderThan(c context.Context, t time.Time) (int64, error) {
	db := r.DB.WithContext(c).Where("logon_time < ?", t).Delete(model.LogonEvent{})
	return db.RowsAffected, db.Error
}

// CountPerDay 最近days天每日成功失败统计
func (r LogonEventRepository) CountPerDay(c context.Context, days int) (o []dto.DayLogonCount, err error) {
	dayExpr := "date_format(logon_time, '%Y-%m-%d')"
	if config.GlobalCfg.DB == "sqlite" {
		dayExpr = "strftime('%Y-%m-%d', logon_time)"
	}
	start := time.Now().AddDate(0, 0, -days)
	err = r.DB.WithContext(c).Table("logon_events").
		Select(dayExpr + " as day, " +
			"sum(case when event_id = 4624 then 1 else 0 end) as success, " +
			"sum(case when event_id = 4625 then 1 else 0 end) as failure, " +
			"count(*) as total").
		Where("logon_time >= ?", start).
		Group("day").Order("day asc").Scan(&o).Error
	if o == nil {
		o = make([]dto.DayLogonCount, 0)
	}
	return
}

// TopUsernames 窗口内事件数最多的用户
func (r LogonEventRepository) TopUsernames(c context.Context, days, limit int) (o []dto.UsernameCount, err error) {
	start := time.Now().AddDate(0, 0, -days)
	err = r.DB.WithContext(c).Table("logon_events").
		Select("username, count(*) as cnt").
		Where("logon_time >= ? and username <> ''", start).
		Group("username").Order("cnt desc").Limit(limit).Scan(&o).Error
	if o == nil {
		o = make([]dto.UsernameCount, 0)
	}
	return
}
