package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/betbot/gov20/pkg/config"
	"github.com/betbot/gov20/pkg/logger"
	"github.com/betbot/gov20/pkg/secretstore"
	"github.com/betbot/gov20/v20/client"
	"github.com/betbot/gov20/v20/v20test"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	var (
		configPath  = flag.String("config", os.Getenv("GOBET_CONFIG"), "YAML 配置文件路径")
		instruments = flag.String("instruments", "EUR_USD,USD_JPY,XAU_USD", "逗号分隔的品种列表")
		interval    = flag.Duration("interval", 2*time.Second, "轮询间隔")
		fake        = flag.Bool("fake", false, "使用内置的演示服务")
	)
	flag.Parse()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 日志只写文件，不输出到终端
	lc := cfg.LoggerConfig()
	lc.Quiet = true
	if lc.OutputFile == "" {
		lc.OutputFile = filepath.Join("logs", "price-watcher-tui.log")
	}
	if err := logger.Init(lc); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}

	var beforePoll func()
	if *fake {
		srv := v20test.NewServer("101-DEMO", "demo")
		defer srv.Close()
		srv.SeedDemo()
		cfg.V20.BaseURL, cfg.V20.AccountID, cfg.V20.Token = srv.URL, srv.AccountID, srv.Token
		beforePoll = func() {
			for _, inst := range v20test.DemoInstruments() {
				// 随机游走 -2..+2 个点
				steps := int64(rand.Intn(5) - 2)
				srv.Nudge(inst.Name, inst.PipSize().Mul(decimal.NewFromInt(steps)))
			}
		}
	} else if cfg.V20.Token == "" && cfg.Secrets.DBPath != "" {
		key, err := secretstore.ParseKey(cfg.Secrets.Key)
		if err != nil {
			log.Fatal(err)
		}
		ss, err := secretstore.Open(secretstore.OpenOptions{Path: cfg.Secrets.DBPath, EncryptionKey: key, ReadOnly: true})
		if err != nil {
			log.Fatal(err)
		}
		err = cfg.ResolveToken(ss)
		_ = ss.Close()
		if err != nil {
			log.Fatal(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	c := client.NewClient(cfg.V20.BaseURL, cfg.V20.AccountID, cfg.V20.Token,
		client.WithTimeout(cfg.V20.Timeout),
		client.WithLogger(logger.WithField("component", "price-watcher-tui")),
	)

	var names []string
	for _, n := range strings.Split(*instruments, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		log.Fatal("至少需要一个品种")
	}

	m := newModel(c, names, *interval)
	m.beforePoll = beforePoll
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("运行程序失败: %v", err)
	}
}
