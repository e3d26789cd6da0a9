package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"rccircuit/animate"
	"rccircuit/export"
	"rccircuit/types"

	"gopkg.in/yaml.v3"
)

// Simulation 仿真设置
type Simulation struct {
	TimeStep  float64 `yaml:"time_step"`
	Discharge bool    `yaml:"discharge"`
}

// Export 导出设置
type Export struct {
	Precision int    `yaml:"precision"`
	Separator string `yaml:"separator"`
	MaxRows   int    `yaml:"max_rows"`
}

// Animation 动画设置
type Animation struct {
	Interval time.Duration `yaml:"interval"`
	Step     int           `yaml:"step"`
}

// Config 运行配置文件
type Config struct {
	Circuit    types.Params `yaml:"circuit"`
	Simulation Simulation   `yaml:"simulation"`
	Export     Export       `yaml:"export"`
	Animation  Animation    `yaml:"animation"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Circuit:    types.DefaultParams(),
		Simulation: Simulation{TimeStep: types.DefaultTimeStep},
		Export: Export{
			Precision: types.DefaultPrecision,
			Separator: ".",
			MaxRows:   types.CSVMaxRows,
		},
		Animation: Animation{Interval: animate.DefaultInterval, Step: 1},
	}
}

// Parse 解析 YAML 配置,未给出的字段使用默认值
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("配置解析失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 加载 YAML 配置文件
func LoadFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Validate 校验配置
func (cfg *Config) Validate() error {
	if err := cfg.Circuit.Validate(); err != nil {
		return err
	}
	if !(cfg.Simulation.TimeStep > 0) {
		return fmt.Errorf("%w: dt=%g", types.ErrTimeStep, cfg.Simulation.TimeStep)
	}
	if _, err := cfg.ExportOptions(); err != nil {
		return err
	}
	return nil
}

// ExportOptions 转换为导出配置
func (cfg *Config) ExportOptions() (export.Options, error) {
	sep, err := export.ParseSeparator(cfg.Export.Separator)
	if err != nil {
		return export.Options{}, err
	}
	o := export.Options{Precision: cfg.Export.Precision, Separator: sep, MaxRows: cfg.Export.MaxRows}
	if o.MaxRows <= 0 {
		o.MaxRows = types.CSVMaxRows
	}
	return o, o.Validate()
}

// Marshal 输出 YAML
func (cfg *Config) Marshal() ([]byte, error) { return yaml.Marshal(cfg) }
