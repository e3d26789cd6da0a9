package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"rccircuit/types"
)

// Header 导出表头: 时间; 电压; 电流
var Header = []string{"time_s", "voltage_V", "current_A"}

// Delimiter 字段分隔符
const Delimiter = ';'

// Options 导出配置
type Options struct {
	Precision int  // 小数位数 [1,12]
	Separator rune // 小数分隔符 '.' 或 ','
	MaxRows   int  // 最大数据行数
}

// DefaultOptions 默认导出配置
func DefaultOptions() Options {
	return Options{
		Precision: types.DefaultPrecision,
		Separator: '.',
		MaxRows:   types.CSVMaxRows,
	}
}

// Validate 校验导出配置
func (o Options) Validate() error {
	if o.Precision < types.PrecisionMin || o.Precision > types.PrecisionMax {
		return fmt.Errorf("%w: %d 不在 [%d,%d]", types.ErrPrecision, o.Precision, types.PrecisionMin, types.PrecisionMax)
	}
	if o.Separator != '.' && o.Separator != ',' {
		return fmt.Errorf("%w: %q", types.ErrSeparator, o.Separator)
	}
	return nil
}

// ParseSeparator 解析小数分隔符
func ParseSeparator(s string) (rune, error) {
	switch strings.TrimSpace(s) {
	case ".", "point", "dot":
		return '.', nil
	case ",", "comma":
		return ',', nil
	}
	return 0, fmt.Errorf("%w: %q", types.ErrSeparator, s)
}

// Indices 在 [0, n-1] 上均匀选取 min(maxRows, n) 个索引,向零取整
func Indices(n, maxRows int) []int {
	if n <= 0 || maxRows <= 0 {
		return nil
	}
	m := min(n, maxRows)
	if m == 1 {
		return []int{0}
	}
	list := make([]int, m)
	step := float64(n-1) / float64(m-1)
	for i := range list {
		list[i] = int(float64(i) * step)
	}
	list[m-1] = n - 1
	return list
}

// FormatValue 定点格式化,去掉末尾的0和小数点,再替换小数分隔符
func FormatValue(v float64, precision int, separator rune) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	if separator != '.' {
		s = strings.ReplaceAll(s, ".", string(separator))
	}
	return s
}

// WriteCSV 将结果抽样写为分号分隔文本
func WriteCSV(w io.Writer, r *types.Result, o Options) error {
	if r == nil || r.Len() == 0 {
		return types.ErrNoResult
	}
	if err := o.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.Write(Header); err != nil {
		return err
	}
	row := make([]string, 3)
	for _, i := range Indices(r.Len(), o.MaxRows) {
		row[0] = FormatValue(r.Time[i], o.Precision, o.Separator)
		row[1] = FormatValue(r.Voltage[i], o.Precision, o.Separator)
		row[2] = FormatValue(r.Current[i], o.Precision, o.Separator)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Preview 以字符串形式返回导出内容
func Preview(r *types.Result, o Options) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, r, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}
