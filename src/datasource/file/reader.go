// reader.go
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/kshedden/datareader"
	"github.com/tealeg/xlsx"
)

// ErrUnsupported 不在支持范围内的文件扩展名
var ErrUnsupported = errors.New("unsupported file type")

// ErrNeedsConversion SPSS .sav没有可用的Go读取器, 需要先转换
var ErrNeedsConversion = errors.New("spss .sav is not readable directly, convert to csv or xlsx first")

// ReadFile 按扩展名分发到具体读取器(大小写不敏感)
// sheetName只对xlsx有意义, 为空时取第一个工作表
func ReadFile(path, sheetName string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path, sheetName)
	case ".dta", ".sas7bdat":
		return ReadStat(path)
	case ".sav":
		return dataframe.DataFrame{}, ErrNeedsConversion
	default:
		return dataframe.DataFrame{}, ErrUnsupported
	}
}

// Supported 判断扩展名是否有对应的读取器
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".dta", ".sas7bdat":
		return true
	}
	return false
}

func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.WithLazyQuotes(true),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse csv: %w", df.Err)
	}
	return df, nil
}

func ReadXLSX(path, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open xlsx: %w", err)
	}
	return frameFromWorkbook(xlFile, sheetName)
}

// ReadXLSXBytes 从内存数据读取, 供邮件附件使用
func ReadXLSXBytes(data []byte, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open xlsx: %w", err)
	}
	return frameFromWorkbook(xlFile, sheetName)
}

func frameFromWorkbook(xlFile *xlsx.File, sheetName string) (dataframe.DataFrame, error) {
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("workbook has no sheets")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("sheet %q not found", sheetName)
		}
		sheet = s
	}

	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
// 问卷导出第一行就是标题行
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %q is empty", sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.String())
	}
	if len(headers) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet %q has no header row", sheet.Name)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			val := ""
			if i < len(row.Cells) {
				val = row.Cells[i].String()
			}
			columns[i] = append(columns[i], val)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df, nil
}

// ReadStat 读取统计软件的二进制数据文件(Stata .dta / SAS .sas7bdat)
func ReadStat(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open stat file: %w", err)
	}
	defer f.Close()

	var rdr datareader.StatfileReader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dta":
		rdr, err = datareader.NewStataReader(f)
	case ".sas7bdat":
		rdr, err = datareader.NewSAS7BDATReader(f)
	default:
		return dataframe.DataFrame{}, ErrUnsupported
	}
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("parse stat file: %w", err)
	}

	cols, err := rdr.Read(-1)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read stat data: %w", err)
	}
	if len(cols) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("stat file has no columns")
	}

	names := rdr.ColumnNames()
	seriesList := make([]series.Series, 0, len(cols))
	for i, col := range cols {
		name := fmt.Sprintf("col%d", i)
		if i < len(names) {
			name = names[i]
		}
		seriesList = append(seriesList, series.New(statRecords(col), series.String, name))
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df, nil
}

// statRecords 把datareader的一列转成字符串记录, 缺失值转为空串
func statRecords(col *datareader.Series) []string {
	missing := col.Missing()

	var out []string
	switch data := col.Data().(type) {
	case []float64:
		out = make([]string, len(data))
		for i, v := range data {
			out[i] = strconvFloat(v)
		}
	case []string:
		out = make([]string, len(data))
		for i, v := range data {
			out[i] = strings.TrimSpace(v)
		}
	case []time.Time:
		out = make([]string, len(data))
		for i, v := range data {
			out[i] = v.Format("2006-01-02 15:04:05")
		}
	default:
		// 其余整型宽度走反射
		rv := reflect.ValueOf(col.Data())
		out = make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = fmt.Sprint(rv.Index(i).Interface())
		}
	}

	for i := range out {
		if missing != nil && i < len(missing) && missing[i] {
			out[i] = ""
		}
	}
	return out
}

// strconvFloat 整数值不带小数部分输出
func strconvFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
