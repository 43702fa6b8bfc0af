package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	"github.com/tsinghua-fib-lab/corridor-sim/entity/train"
	"github.com/tsinghua-fib-lab/corridor-sim/output"
	"github.com/tsinghua-fib-lab/corridor-sim/server"
	"github.com/tsinghua-fib-lab/corridor-sim/task"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/config"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/input"
	"github.com/tsinghua-fib-lab/corridor-sim/utils/randengine"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path (empty means defaults)")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")
	// 监听地址，覆盖配置文件；为空则单次运行
	listenAddr = flag.String("listen", "", "HTTP listening address, e.g. :51102 (empty means one-shot run)")
	// 单次运行的列车数量，覆盖配置文件
	trains = flag.String("trains", "", "number of trains for a one-shot run")
	// 单次运行时把完整报告以JSON写入该文件
	reportPath = flag.String("report", "", "write the full JSON report of a one-shot run to this file")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "log level (trace debug info warn error critical off)")

	log = logrus.WithField("module", "corridor")
)

func main() {
	// .env 可选，存在时补充环境变量
	_ = godotenv.Load()
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	// 获取配置
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	}
	c, err := config.Parse(file)
	if err != nil {
		log.Panicf("config file load err: %v", err)
	}
	if v := os.Getenv("CORRIDOR_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("CORRIDOR_SQLITE"); v != "" {
		c.Output.SQLite = v
	}
	if *listenAddr != "" {
		c.Server.Listen = *listenAddr
	}
	if *trains != "" {
		c.Control.Fleet.Size = train.ParseFleetSize(*trains)
	}
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		log.Panicf("invalid config: %v", err)
	}
	log.Infof("%+v", rc.All)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *output.DB
	if path := rc.All.Output.SQLite; path != "" {
		if store, err = output.Connect(ctx, path); err != nil {
			log.Panicf("output init err: %v", err)
		}
		defer store.Close()
	}

	opts := task.OptionsFromConfig(rc)
	if addr := rc.All.Server.Listen; addr != "" {
		s := server.New(opts, rc.C.Fleet.Size, randengine.New(rc.Seed), store)
		if err := s.Serve(ctx, addr, rc.All.Server.AllowedOrigins); err != nil {
			log.Errorf("server stopped: %v", err)
		}
		return
	}

	// 单次运行
	var report *task.Report
	if rc.All.Input.Fleet != nil {
		fleet, err := input.LoadFleet(ctx, rc.All.Input)
		if err != nil {
			log.Panicf("input load err: %v", err)
		}
		report = task.RunAll(opts, fleet)
	} else {
		report = task.Simulate(opts, randengine.New(rc.Seed), rc.C.Fleet.Size)
	}
	for _, line := range report.Digest() {
		log.Info(line)
	}
	if store != nil {
		if err := store.SaveReport(ctx, report); err != nil {
			log.Errorf("save report err: %v", err)
		}
	}
	if *reportPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Panicf("marshal report err: %v", err)
		}
		if err := os.WriteFile(*reportPath, data, 0o644); err != nil {
			log.Panicf("write report err: %v", err)
		}
	}
}
