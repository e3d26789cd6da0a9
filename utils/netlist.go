package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NetList 参数行字段列表
type NetList []string

// Fields 拆分一行,去掉 # 之后的注释
func Fields(line string) NetList {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return NetList(strings.Fields(line))
}

// siSuffix 国际单位制前缀
var siSuffix = map[byte]float64{
	'p': 1e-12,
	'n': 1e-9,
	'u': 1e-6,
	'm': 1e-3,
	'k': 1e3,
	'K': 1e3,
	'M': 1e6,
	'G': 1e9,
}

// ParseValue 解析带单位前缀的数值,如 "4.7u" "1k" "2.2M"
// 区分大小写: m 为毫, M 为兆. 单位符号 F、Ω、ohm、V 会被忽略.
func ParseValue(s string) (float64, error) {
	str := strings.TrimSpace(s)
	for _, unit := range []string{"ohm", "Ω", "F", "V"} {
		str = strings.TrimSuffix(str, unit)
	}
	if str == "" {
		return 0, fmt.Errorf("数值为空: %q", s)
	}
	if val, err := strconv.ParseFloat(str, 64); err == nil {
		return val, nil
	}
	scale, ok := siSuffix[str[len(str)-1]]
	if !ok {
		return 0, fmt.Errorf("数值格式错误: %q", s)
	}
	val, err := strconv.ParseFloat(str[:len(str)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("数值格式错误: %q", s)
	}
	return val * scale, nil
}

// FormatValue 格式化数值,保留最短可还原表示
func FormatValue(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Name 第一个字段的大写名称
func (value NetList) Name() string {
	if len(value) == 0 {
		return ""
	}
	return strings.ToUpper(value[0])
}

// ParseFloat64 解析第 i 个字段
func (value NetList) ParseFloat64(i int) (float64, error) {
	if i >= len(value) {
		return 0, fmt.Errorf("缺少第 %d 个字段", i)
	}
	return ParseValue(value[i])
}

// ParseString 安全获取字符串
func (value NetList) ParseString(i int, defaultValue string) string {
	if i < len(value) {
		return value[i]
	}
	return defaultValue
}

// ParseBool 解析布尔值
func (value NetList) ParseBool(i int, defaultValue bool) bool {
	if i < len(value) {
		if val, err := strconv.ParseBool(value[i]); err == nil {
			return val
		}
	}
	return defaultValue
}
