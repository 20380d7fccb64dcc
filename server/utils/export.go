package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"baliance.com/gooxml/color"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"
	"github.com/klarkxy/gohtml"
	"github.com/signintech/gopdf"
)

// WriteCsvFile 将表头与内容写为csv文件, 先写临时文件再改名, 目标不可写时报错
func WriteCsvFile(path string, header []string, content [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, v := range content {
		if err := w.Write(v); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// PdfExport 导出pdf文件
func PdfExport(pdf *gopdf.GoPdf, title string, tableTitle []string, size []int, data [][]string, xs, ys int) (err error, xe, ye int) {
	if len(tableTitle) != len(size) {
		err = fmt.Errorf("tableTitle size not equal size")
		return
	}
	// 获取数据的宽度
	var width = 0
	for _, v := range size {
		width += v
	}
	if width > 580 {
		err = fmt.Errorf("size too large")
		return
	}
	// 获取页边距
	var marginC = (595 - width) / 2
	var marginH = 30
	// 对齐方式
	alignCenter := gopdf.CellOption{Align: gopdf.Center | gopdf.Middle,
		Border: gopdf.AllBorders, Float: gopdf.Right}
	center := 595 / 2

	err = pdf.AddTTFFont("simhei", "./config/simhei.ttf")
	if err != nil {
		return
	}
	err = pdf.SetFont("simhei", "", 20)
	if err != nil {
		return
	}

	// 设置初始值
	var x = marginC
	var y = marginH
	if ys != 0 {
		y = ys + 40
	}

	// 设置标题
	if title != "" {
		pdf.SetX(float64(center - len(title)*8/2))
		pdf.SetY(float64(y))
		pdf.Cell(nil, title)
	}

	// 设置表头字体
	err = pdf.SetFont("simhei", "", 10)
	pdf.SetTextColor(0x00, 0x00, 0x00)
	if err != nil {
		return
	}

	for i := 0; i < len(tableTitle); i++ {
		pdf.SetX(float64(x))
		pdf.SetY(float64(y + 40))
		pdf.CellWithOption(&gopdf.Rect{
			W: float64(size[i]),
			H: 15,
		}, tableTitle[i], alignCenter)
		x += size[i]
	}

	y += 55
	ye = y
	xe = center

	// 写入数据
	var i = 0
	for ; i < len(data); i++ {
		x = marginC
		if len(data[i]) != len(size) {
			continue
		}
		for j := 0; j < len(data[i]); j++ {
			pdf.SetX(float64(x))
			pdf.SetY(float64(y + i*15))
			if float64(y+i*15) > 790 {
				pdf.AddPage()
				data = data[i:]
				i = 0
				y = marginH
				break
			}
			pdf.CellWithOption(&gopdf.Rect{
				W: float64(size[j]),
				H: 15,
			}, data[i][j], alignCenter)
			x += size[j]
			ye = y + i*15
		}
	}
	return
}

// PdfToReader 传入pdf文件，返回文件流
func PdfToReader(pdf *gopdf.GoPdf) (*bytes.Reader, error) {
	// 保存文件为临时文件
	name := strconv.FormatInt(time.Now().Unix(), 10)
	err := pdf.WritePdf(name + ".pdf")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(name + ".pdf")
	if err != nil {
		return nil, err
	}
	defer Check(f.Close)
	// 删除临时文件
	defer func() {
		_ = os.Remove(name + ".pdf")
	}()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// CreateWord 通过标题、表头和内容生成word文档
func CreateWord(d *document.Document, title string, header []string, content [][]string) error {
	para := d.AddParagraph()
	para.Properties().SetAlignment(wml.ST_JcCenter)
	run := para.AddRun()
	run.Properties().SetSize(15)
	run.Properties().SetBold(true)
	// 设置标题
	if title != "" {
		run.AddText(title)
	}
	d.AddParagraph()

	// 设定表格样式
	ts := d.Styles.AddStyle("MyTableStyle", wml.ST_StyleTypeTable, false)
	tp := ts.TableProperties()
	tp.SetRowBandSize(1)
	tp.SetColumnBandSize(1)
	tp.SetTableIndent(measurement.Zero)

	// first row bold
	s := ts.TableConditionalFormatting(wml.ST_TblStyleOverrideTypeFirstRow)
	s.RunProperties().SetBold(true)

	// 设置表头
	table := d.AddTable()
	table.Properties().SetLayout(wml.ST_TblLayoutTypeAutofit)
	table.Properties().SetWidthAuto()
	table.Properties().SetAlignment(wml.ST_JcTableCenter)
	table.Properties().SetStyle("MyTableStyle")
	table.Properties().SetCellSpacingAuto()
	borders := table.Properties().Borders()
	borders.SetInsideHorizontal(wml.ST_BorderSingle, color.Black, measurement.Zero)
	row := table.AddRow()
	for _, v := range header {
		cell := row.AddCell()
		cellPara := cell.AddParagraph()
		cell.Properties().SetWidthAuto()
		cell.Properties().SetShading(wml.ST_ShdSolid, color.LightGray, color.Auto)
		cellPara.Properties().SetAlignment(wml.ST_JcLeft)
		cellrun := cellPara.AddRun()
		cellrun.Properties().SetSize(10)
		cellrun.AddText(v)
	}

	// 设置内容
	for _, v := range content {
		row := table.AddRow()
		for _, v2 := range v {
			cell := row.AddCell()
			cell.Properties().SetWidthAuto()
			cellPara := cell.AddParagraph()
			cellPara.Properties().SetAlignment(wml.ST_JcLeft)
			cellrun := cellPara.AddRun()
			cellrun.Properties().SetSize(8)
			cellrun.AddText(v2)
		}
	}
	d.AddParagraph()
	d.AddParagraph()

	return d.Validate()
}

// DocumentToReader document.Document 转为bytes.Reader
func DocumentToReader(d *document.Document) (*bytes.Reader, error) {
	// 保存文件为临时文件
	name := strconv.FormatInt(time.Now().Unix(), 10)
	err := d.SaveToFile(name + ".docx")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(name + ".docx")
	if err != nil {
		return nil, err
	}
	defer Check(f.Close)
	// 删除临时文件
	defer func() {
		_ = os.Remove(name + ".docx")
	}()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// ExportCsv 通过统计表头内容与详细表头内容生成csv bytes.Reader
func ExportCsv(header1, header2 []string, content1, content2 [][]string) (*bytes.Reader, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)

	// 设置文字格式utf-8
	w.UseCRLF = true
	buf.WriteString("\xEF\xBB\xBF") // 写入UTF-8 BOM
	// 统计数据
	err := w.Write([]string{"统计数据"})
	if err != nil {
		return nil, err
	}
	err = w.Write(header1)
	if err != nil {
		return nil, err
	}
	for _, v := range content1 {
		err := w.Write(v)
		if err != nil {
			return nil, err
		}
	}

	// 详细数据
	err = w.Write([]string{"详细数据"})
	if err != nil {
		return nil, err
	}
	err = w.Write(header2)
	if err != nil {
		return nil, err
	}
	for _, v := range content2 {
		err := w.Write(v)
		if err != nil {
			return nil, err
		}
	}

	w.Flush()
	return bytes.NewReader(buf.Bytes()), nil
}

// ExportHtml 通过标题、表头和内容生成html bytes.Reader
func ExportHtml(title string, header1, header2 []string, content1, content2 [][]string) (data *bytes.Reader, err error) {
	htm := gohtml.NewHtml()
	htm.Html().Lang("zh-CN")
	htm.Meta().Charset("utf-8")
	htm.Meta().Http_equiv("X-UA-Compatible").Content("IE=edge")
	htm.Meta().Content("width=device-width, initial-scale=1, maximum-scale=1, user-scalable=no").Name("viewport")
	htm.Head().Title().Text(title)
	htmlDiv := htm.Body().Tag("div")
	//统计数据
	htmlDiv.Tag("div").Attr("style", "text-align: center").Text("统计数据")
	htmlTableView := htmlDiv.Tag("table").Attr("style", "width: 35%;transform: translateX(93%);clear: both;background-color: transparent;margin-top: 6px !important;margin-bottom: 6px !important;border-collapse: separate !important;")
	htmlTrView := htmlTableView.Thead().Attr("style", "background: #FAFAFA; display: table-header-group;border-radius: 4px 4px 0px 0px;font-family: NotoSansHans-Medium;font-size: 14px; color: rgba(0, 0, 0, 0.85);line-height: 22px;border-color: inherit;vertical-align: middle;text-align: left;").Tr()
	for _, v := range header1 {
		htmlTrView.Th().Text(v)
	}
	htmlTbodyView := htmlTableView.Tag("tbody").Attr("style", "font-family: NotoSansHans-Regular;font-size: 14px;color: rgba(0, 0, 0, 0.65);line-height: 22px;")
	for _, v := range content1 {
		droip := htmlTbodyView.Tr()
		for i := 0; i < len(v); i++ {
			droip.Td().Text(v[i])
		}
	}
	//详细数据
	htmlDiv.Tag("div").Attr("style", "text-align: center;margin-top: 35px;").Text("详细数据")
	htmlTable := htmlDiv.Tag("table").Attr("style", "width: 65%;transform: translateX(30%);clear: both;background-color: transparent;margin-top: 6px !important;margin-bottom: 6px !important;border-collapse: separate !important;")
	htmlTr := htmlTable.Thead().Attr("style", "background: #FAFAFA; display: table-header-group;border-radius: 4px 4px 0px 0px;font-family: NotoSansHans-Medium;font-size: 14px; color: rgba(0, 0, 0, 0.85);line-height: 22px;border-color: inherit;vertical-align: middle;text-align: left;").Tr()
	for _, v := range header2 {
		htmlTr.Th().Text(v)
	}
	htmlTbody := htmlTable.Tag("tbody").Attr("style", "font-family: NotoSansHans-Regular;font-size: 14px;color: rgba(0, 0, 0, 0.65);line-height: 22px;")
	for _, v := range content2 {
		htmlB := htmlTbody.Tr()
		for i := 0; i < len(v); i++ {
			htmlB.Td().Text(v[i])
		}
	}

	data = bytes.NewReader([]byte(htm.String()))
	return
}
