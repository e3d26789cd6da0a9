package types

import (
	"fmt"
	"strings"
)

// SourceType 电源类型
type SourceType uint8

const (
	SourceDC SourceType = iota // 直流
	SourceAC                   // 交流(固定 50Hz)
)

func (s SourceType) String() string {
	switch s {
	case SourceDC:
		return "DC"
	case SourceAC:
		return "AC"
	}
	return fmt.Sprintf("SourceType(%d)", uint8(s))
}

// ParseSourceType 解析电源类型,忽略大小写
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DC":
		return SourceDC, nil
	case "AC":
		return SourceAC, nil
	}
	return SourceDC, fmt.Errorf("%w: %q", ErrSourceType, s)
}

// MarshalText 文本编码
func (s SourceType) MarshalText() ([]byte, error) {
	if s != SourceDC && s != SourceAC {
		return nil, fmt.Errorf("%w: %d", ErrSourceType, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText 文本解码
func (s *SourceType) UnmarshalText(text []byte) error {
	v, err := ParseSourceType(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
