package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/betbot/gov20/pkg/config"
	"github.com/betbot/gov20/pkg/logger"
	"github.com/betbot/gov20/pkg/secretstore"
	"github.com/betbot/gov20/v20/client"
	"github.com/betbot/gov20/v20/v20test"
)

const usage = `用法: v20 [flags] <command> [args]

commands:
  instruments [NAME...]   查询品种定义（不带参数时查询全部）
  pricing NAME            查询报价
  tick NAME               查询报价并输出 tick（mid / spread）
  position NAME           查询单个品种持仓
  positions               查询全部持仓
  order NAME UNITS        市价下单（UNITS 为负数表示卖出）
`

func main() {
	// .env 可选
	_ = godotenv.Load()

	var (
		configPath = flag.String("config", os.Getenv("GOBET_CONFIG"), "YAML 配置文件路径")
		fake       = flag.Bool("fake", false, "使用内置的演示服务，不访问真实接口")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage); flag.PrintDefaults() }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		fatal(err)
	}
	lc := cfg.LoggerConfig()
	lc.Stderr = true
	if err := logger.Init(lc); err != nil {
		fatal(err)
	}

	if *fake {
		srv := v20test.NewServer(orDefault(cfg.V20.AccountID, "101-DEMO"), "demo")
		defer srv.Close()
		srv.SeedDemo()
		cfg.V20.BaseURL, cfg.V20.AccountID, cfg.V20.Token = srv.URL, srv.AccountID, srv.Token
		logger.Infof("使用演示服务: %s", srv.URL)
	} else if err := resolveToken(cfg); err != nil {
		fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	c := client.NewClient(cfg.V20.BaseURL, cfg.V20.AccountID, cfg.V20.Token,
		client.WithTimeout(cfg.V20.Timeout),
		client.WithLogger(logger.WithField("component", "v20")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := run(ctx, c, flag.Arg(0), flag.Args()[1:])
	if err == nil || errors.Is(err, client.ErrOrderNotFilled) {
		printJSON(out)
	}
	if err != nil {
		var rerr *client.RequestError
		if errors.As(err, &rerr) {
			logger.WithFields(logrus.Fields{
				"kind":      rerr.Kind.String(),
				"status":    rerr.StatusCode,
				"requestID": rerr.RequestID,
			}).Error("请求失败")
		}
		fatal(err)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) (any, error) {
	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: 参数不足\n\n%s", cmd, usage)
		}
		return nil
	}

	switch cmd {
	case "instruments":
		return c.FetchInstruments(ctx, args...)
	case "pricing":
		if err := need(1); err != nil {
			return nil, err
		}
		return c.FetchPricing(ctx, args[0])
	case "tick":
		if err := need(1); err != nil {
			return nil, err
		}
		t, err := c.FetchTick(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"instrument": t.Instrument,
			"time":       t.Timestamp(),
			"seconds":    t.Seconds(),
			"bid":        t.Bid,
			"ask":        t.Ask,
			"mid":        t.Price(),
			"spread":     t.Spread(),
		}, nil
	case "position":
		if err := need(1); err != nil {
			return nil, err
		}
		return c.FetchPosition(ctx, args[0])
	case "positions":
		return c.FetchOpenPositions(ctx)
	case "order":
		if err := need(2); err != nil {
			return nil, err
		}
		units, err := decimal.NewFromString(args[1])
		if err != nil {
			return nil, fmt.Errorf("UNITS 无效 %q: %w", args[1], err)
		}
		// 未成交时同时返回响应，方便查看撤单原因
		return c.PlaceMarketOrder(ctx, args[0], units)
	default:
		return nil, fmt.Errorf("未知命令 %q\n\n%s", cmd, usage)
	}
}

// resolveToken token 未配置且配置了 secret store 时，从 badger 中读取
func resolveToken(cfg *config.Config) error {
	if cfg.V20.Token != "" || cfg.Secrets.DBPath == "" {
		return nil
	}
	key, err := secretstore.ParseKey(cfg.Secrets.Key)
	if err != nil {
		return err
	}
	ss, err := secretstore.Open(secretstore.OpenOptions{
		Path:          cfg.Secrets.DBPath,
		EncryptionKey: key,
		ReadOnly:      true,
	})
	if err != nil {
		return err
	}
	defer ss.Close()
	return cfg.ResolveToken(ss)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Errorf("输出失败: %v", err)
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
