package utils

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type JsonTime struct {
	time.Time
}

func NewJsonTime(t time.Time) JsonTime {
	return JsonTime{
		Time: t,
	}
}

func NowJsonTime() JsonTime {
	return JsonTime{
		Time: time.Now(),
	}
}

func (t JsonTime) MarshalJSON() ([]byte, error) {
	var stamp = fmt.Sprintf("\"%s\"", t.Format("2006-01-02 15:04:05"))
	return []byte(stamp), nil
}

func (t JsonTime) Value() (driver.Value, error) {
	var zeroTime time.Time
	if t.Time.UnixNano() == zeroTime.UnixNano() {
		return nil, nil
	}
	return t.Time, nil
}

func (t *JsonTime) Scan(v interface{}) error {
	value, ok := v.(time.Time)
	if ok {
		*t = JsonTime{Time: value}
		return nil
	}
	return fmt.Errorf("can not convert %v to timestamp", v)
}

func UUID() string {
	v4, _ := uuid.NewV4()
	return v4.String()
}

func Check(f func() error) {
	if err := f(); err != nil {
		logrus.Error("Received error:", err)
	}
}

func RemoveDuplicatesAndEmpty(data []string) (result []string) {
	result = make([]string, 0)
	strMap := make(map[string]bool) //用于去重
	for i := range data {
		// 去除空格
		data[i] = strings.TrimSpace(data[i])
		// 去除空字符串
		if data[i] == "" {
			continue
		}
		if _, ok := strMap[data[i]]; !ok {
			strMap[data[i]] = true
			result = append(result, data[i])
		}
	}
	return result
}

func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// GetCpuPercent 获取CPU使用率
func GetCpuPercent() float64 {
	percent, _ := cpu.Percent(time.Second, false)
	if len(percent) == 0 {
		return 0
	}
	return percent[0]
}

// GetMemPercent 获取内存使用率
func GetMemPercent() float64 {
	memInfo, _ := mem.VirtualMemory()
	if memInfo == nil {
		return 0
	}
	return memInfo.UsedPercent
}

// GetDiskPercent 获取磁盘使用率
func GetDiskPercent(path string) float64 {
	diskInfo, err := disk.Usage(path)
	if err != nil {
		fmt.Printf("获取磁盘使用率异常，异常信息:%v,要获取的目录:%v\n", err, path)
		return 0
	}
	return diskInfo.UsedPercent
}

func FileSize(file string) (int64, error) {
	fi, err := os.Stat(file)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func String2Time(str string) time.Time {
	if len(str) == 0 {
		return time.Time{}
	}
	if len(str) == 10 {
		str = str + " 00:00:00"
	}
	if len(str) == 13 {
		str = str + ":00:00"
	}
	if len(str) == 16 {
		str = str + ":00"
	}
	t, err := time.Parse("2006-01-02 15:04:05", str)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateExcelFile 创建excel文件
func CreateExcelFile(name string, header []string, values [][]string) (file *excelize.File, err error) {
	if len(values) != 0 && len(header) != len(values[0]) {
		return nil, errors.New("header length not equal values length")
	}
	file = excelize.NewFile()
	file.SetSheetName("Sheet1", name)
	err = file.SetColWidth(name, string(rune(65)), string(rune(65+len(header)-1)), 20)
	if err != nil {
		return
	}
	// 设置表头样式
	style, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color:  "#FFFFFF",
			Bold:   true,
			Family: "Arial",
			Size:   10,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#666666"},
			Pattern: 1,
		},
	})
	if err != nil {
		return
	}
	// 设置表头
	for i, v := range header {
		if err = file.SetCellValue(name, fmt.Sprintf("%s%d", string(rune(65+i)), 1), v); err != nil {
			return
		}
		if err = file.SetCellStyle(name, fmt.Sprintf("%s%d", string(rune(65+i)), 1), fmt.Sprintf("%s%d", string(rune(65+i)), 1), style); err != nil {
			return
		}
	}

	// 设置内容样式
	style1, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Color:  "#000000",
			Bold:   false,
			Family: "Arial",
			Size:   10,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	// 循环写入数据
	line := 1
	for _, v := range values {
		line++
		for k, vv := range v {
			if err = file.SetCellValue(name, fmt.Sprintf("%s%d", string(rune(65+k)), line), vv); err != nil {
				return
			}
			if err = file.SetCellStyle(name, fmt.Sprintf("%s%d", string(rune(65+k)), line), fmt.Sprintf("%s%d", string(rune(65+k)), line), style1); err != nil {
				return
			}
		}
	}
	return
}

// Struct2StrArr 将结构体数组转为字符串数组
func Struct2StrArr(data interface{}) []string {
	var result []string
	getValue := reflect.ValueOf(data)
	for j := 0; j < getValue.NumField(); j++ {
		switch getValue.Field(j).Kind() {
		case reflect.String:
			result = append(result, getValue.Field(j).String())
		case reflect.Int:
			result = append(result, strconv.Itoa(int(getValue.Field(j).Int())))
		case reflect.Int64:
			result = append(result, strconv.FormatInt(getValue.Field(j).Int(), 10))
		case reflect.Float64:
			result = append(result, strconv.FormatFloat(getValue.Field(j).Float(), 'f', -1, 64))
		case reflect.Bool:
			result = append(result, strconv.FormatBool(getValue.Field(j).Bool()))
		case reflect.Struct:
			if t, ok := getValue.Field(j).Interface().(JsonTime); ok {
				result = append(result, t.Format("2006-01-02 15:04:05"))
			}
		}
	}
	return result
}
