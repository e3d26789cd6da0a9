package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"rccircuit"
	"rccircuit/animate"
	"rccircuit/debug"
	"rccircuit/export"
	"rccircuit/load"
	"rccircuit/types"
	"rccircuit/utils"
)

// override 命令行参数覆盖
type override func(cfg *load.Config)

// overrideFlags 注册覆盖配置的命令行参数,按出现顺序追加到 overrides
func overrideFlags(fs *flag.FlagSet, overrides *[]override) {
	add := func(o override) { *overrides = append(*overrides, o) }
	value := func(name, usage string, set func(cfg *load.Config, v float64)) {
		fs.Func(name, usage, func(s string) error {
			v, err := utils.ParseValue(s)
			if err != nil {
				return err
			}
			add(func(cfg *load.Config) { set(cfg, v) })
			return nil
		})
	}
	value("c", "电容 F (支持 1u 等前缀)", func(cfg *load.Config, v float64) { cfg.Circuit.Capacitance = v })
	value("r", "电阻 Ω", func(cfg *load.Config, v float64) { cfg.Circuit.Resistance = v })
	value("rint", "电源内阻 Ω", func(cfg *load.Config, v float64) { cfg.Circuit.InternalResistance = v })
	value("emf", "电动势 V", func(cfg *load.Config, v float64) { cfg.Circuit.EMF = v })
	value("alpha", "电阻温度系数 1/°C", func(cfg *load.Config, v float64) { cfg.Circuit.Alpha = v })
	value("temp", "温度 °C", func(cfg *load.Config, v float64) { cfg.Circuit.Temperature = v })
	value("dt", "时间步长 s", func(cfg *load.Config, v float64) { cfg.Simulation.TimeStep = v })
	fs.Func("source", "电源类型 DC 或 AC", func(s string) error {
		source, err := types.ParseSourceType(s)
		if err != nil {
			return err
		}
		add(func(cfg *load.Config) { cfg.Circuit.Source = source })
		return nil
	})
	fs.Func("precision", "导出小数位数 1-12", func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		add(func(cfg *load.Config) { cfg.Export.Precision = n })
		return nil
	})
	fs.Func("sep", "小数分隔符 . 或 ,", func(s string) error {
		add(func(cfg *load.Config) { cfg.Export.Separator = s })
		return nil
	})
	fs.BoolFunc("discharge", "放电模式", func(s string) error {
		on := utils.NetList{s}.ParseBool(0, true)
		add(func(cfg *load.Config) { cfg.Simulation.Discharge = on })
		return nil
	})
}

func main() {
	var overrides []override
	overrideFlags(flag.CommandLine, &overrides)
	var (
		configFile = flag.String("config", "", "YAML 运行配置文件")
		paramsFile = flag.String("params", "", "参数文件 (C 1u / R 1k / V 10 DC ...)")
		csvFile    = flag.String("csv", "", "导出 CSV 文件")
		pngFile    = flag.String("png", "", "保存曲线图片 (.png/.svg)")
		htmlFile   = flag.String("html", "", "保存曲线网页")
		jsonFile   = flag.String("json", "", "保存 JSON 记录")
		saveParams = flag.String("save-params", "", "导出参数文件")
		serve      = flag.String("serve", "", "启动网页服务地址, 如 :8080")
		play       = flag.Bool("animate", false, "在终端逐帧播放充电过程")
		verbose    = flag.Bool("v", false, "输出调试信息")
	)
	flag.Parse()

	logger := debug.NewLogger(log.Default(), *verbose)
	if err := run(logger, *configFile, *paramsFile, overrides, outputs{
		csv:        *csvFile,
		png:        *pngFile,
		html:       *htmlFile,
		json:       *jsonFile,
		saveParams: *saveParams,
		serve:      *serve,
		animate:    *play,
	}); err != nil {
		log.Fatalln(err)
	}
}

// outputs 输出设置
type outputs struct {
	csv, png, html, json, saveParams, serve string
	animate                                 bool
}

func run(logger *debug.Logger, configFile, paramsFile string, overrides []override, out outputs) error {
	cfg := load.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = load.LoadFile(configFile); err != nil {
			return err
		}
	}
	sim := rccircuit.NewSimulator(logger)
	sim.TimeStep, sim.Discharge = cfg.Simulation.TimeStep, cfg.Simulation.Discharge
	if err := sim.SetParameters(cfg.Circuit); err != nil {
		return err
	}
	if paramsFile != "" {
		if err := sim.Load(paramsFile); err != nil {
			return err
		}
		cfg.Circuit = sim.Params()
		cfg.Simulation.TimeStep, cfg.Simulation.Discharge = sim.TimeStep, sim.Discharge
	}
	for _, o := range overrides {
		o(cfg)
	}
	opts, err := cfg.ExportOptions()
	if err != nil {
		return err
	}
	sim.ExportOptions = opts
	r, err := sim.Run(cfg.Circuit, cfg.Simulation.TimeStep, cfg.Simulation.Discharge)
	if err != nil {
		return fmt.Errorf("计算失败: %w", err)
	}
	sim.TimeStep, sim.Discharge = cfg.Simulation.TimeStep, cfg.Simulation.Discharge
	if err := export.WriteSummary(os.Stdout, r); err != nil {
		return err
	}
	if err := writeOutputs(sim, r, out); err != nil {
		return err
	}
	if out.animate {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := playTerminal(ctx, r, cfg.Animation); err != nil && ctx.Err() == nil {
			return err
		}
	}
	if out.serve != "" {
		logger.Printf("网页服务: http://%s/", strings.TrimPrefix(out.serve, "http://"))
		return http.ListenAndServe(out.serve, sim)
	}
	return nil
}

func createFile(filename string, write func(f *os.File) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeOutputs(sim *rccircuit.Simulator, r *types.Result, out outputs) error {
	if out.csv != "" {
		if err := createFile(out.csv, func(f *os.File) error { return sim.WriteCSV(f) }); err != nil {
			return fmt.Errorf("导出 CSV 失败: %w", err)
		}
	}
	if out.png != "" {
		if err := sim.Plot.Save(out.png, r); err != nil {
			return fmt.Errorf("保存图片失败: %w", err)
		}
	}
	if out.html != "" {
		if err := createFile(out.html, func(f *os.File) error { return sim.Charts.Render(f) }); err != nil {
			return fmt.Errorf("保存网页失败: %w", err)
		}
	}
	if out.json != "" {
		if err := createFile(out.json, func(f *os.File) error { return sim.Record.Render(f) }); err != nil {
			return fmt.Errorf("保存记录失败: %w", err)
		}
	}
	if out.saveParams != "" {
		if err := sim.Export(out.saveParams); err != nil {
			return fmt.Errorf("导出参数失败: %w", err)
		}
	}
	return nil
}

// barWidth 终端充电条宽度
const barWidth = 40

func playTerminal(ctx context.Context, r *types.Result, cfg load.Animation) error {
	// 约 200 帧播放完毕
	step := cfg.Step
	if step <= 1 {
		step = max(1, r.Len()/200)
	}
	player := animate.NewPlayer(r, cfg.Interval, step)
	err := player.Play(ctx, func(f animate.Frame) {
		n := int(f.ChargeLevel * barWidth)
		fmt.Printf("\r[%s%s] t=%.3es Vc=%8.4fV I=%+.4eA",
			strings.Repeat("#", n), strings.Repeat(" ", barWidth-n), f.Time, f.Voltage, f.Current)
	})
	fmt.Println()
	return err
}
