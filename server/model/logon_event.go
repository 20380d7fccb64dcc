package model

import (
	"loginsight/server/utils"

	"github.com/vmihailenco/msgpack/v5"
)

// Windows安全日志事件ID
const (
	EventIDLogonSuccess = 4624
	EventIDLogonFailure = 4625
)

// 事件字段名, 与Windows安全日志字段保持一致
const (
	FieldSubjectUserName = "SubjectUserName"
	FieldTargetUserName  = "TargetUserName"
	FieldIpAddress       = "IpAddress"
	FieldWorkstationName = "WorkstationName"
	FieldLogonType       = "LogonType"
	FieldProcessName     = "ProcessName"
	FieldAuthPackage     = "AuthenticationPackageName"
)

type LogonEvent struct {
	ID        string         `gorm:"type:varchar(36);primary_key;not null;comment:事件ID" json:"id"`
	EventID   int            `gorm:"type:int(8);index;not null;comment:事件类型(4624登录成功/4625登录失败)" json:"eventId"`
	LogonTime utils.JsonTime `gorm:"type:datetime(3);index;not null;comment:事件时间" json:"logonTime"`
	Username  string         `gorm:"type:varchar(128);index;default:'';comment:登录用户名(冗余列,仅供列表检索)" json:"username"`
	SourceIP  string         `gorm:"type:varchar(64);default:'';comment:来源地址(冗余列,仅供列表检索)" json:"sourceIp"`
	Fields    []byte         `gorm:"type:blob;comment:事件字段(msgpack编码)" json:"-"`
}

func (r *LogonEvent) TableName() string {
	return "logon_events"
}

// SetFields 编码事件字段表, 同时刷新检索用冗余列
func (r *LogonEvent) SetFields(fields map[string]string) error {
	data, err := msgpack.Marshal(fields)
	if err != nil {
		return err
	}
	r.Fields = data
	if v := fields[FieldTargetUserName]; v != "" {
		r.Username = v
	} else {
		r.Username = fields[FieldSubjectUserName]
	}
	r.SourceIP = fields[FieldIpAddress]
	return nil
}

// FieldMap 解码事件字段表, 解码失败视为损坏记录
func (r *LogonEvent) FieldMap() (map[string]string, error) {
	var fields map[string]string
	if err := msgpack.Unmarshal(r.Fields, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

type LogonEventForPage struct {
	ID        string         `json:"id"`
	EventID   int            `json:"eventId"`
	LogonTime utils.JsonTime `json:"logonTime"`
	Username  string         `json:"username"`
	SourceIP  string         `json:"sourceIp"`
}
