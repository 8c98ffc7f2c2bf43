package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/betbot/gov20/v20/client"
	"github.com/betbot/gov20/v20/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	// 样式定义
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	upStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")) // 绿色

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")) // 红色

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))
)

// tickFetcher 拉取单个品种 tick（*client.Client 满足）
type tickFetcher interface {
	FetchTick(ctx context.Context, instrument string) (types.Tick, error)
}

// row 单个品种的展示状态
type row struct {
	tick    types.Tick
	prevMid decimal.Decimal
	err     error
	ok      bool
}

// pollMsg 定时器消息
type pollMsg time.Time

// ticksMsg 一轮拉取结果
type ticksMsg struct {
	ticks map[string]types.Tick
	errs  map[string]error
	at    time.Time
}

type model struct {
	fetcher     tickFetcher
	instruments []string
	interval    time.Duration
	timeout     time.Duration
	beforePoll  func() // 演示模式下用来推动报价

	rows     map[string]row
	lastPoll time.Time
	polls    int
}

func newModel(f tickFetcher, instruments []string, interval time.Duration) model {
	return model{
		fetcher:     f,
		instruments: instruments,
		interval:    interval,
		timeout:     5 * time.Second,
		rows:        make(map[string]row, len(instruments)),
	}
}

func (m model) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		}

	case pollMsg:
		return m, m.fetchCmd()

	case ticksMsg:
		m.apply(msg)
		return m, pollCmd(m.interval)
	}
	return m, nil
}

// apply 合并一轮结果；失败的品种保留上一次的 tick
func (m *model) apply(msg ticksMsg) {
	rows := make(map[string]row, len(m.rows))
	for k, v := range m.rows {
		rows[k] = v
	}
	for name, t := range msg.ticks {
		r := rows[name]
		if r.ok {
			r.prevMid = r.tick.Price()
		}
		r.tick, r.ok, r.err = t, true, nil
		rows[name] = r
	}
	for name, err := range msg.errs {
		r := rows[name]
		r.err = err
		rows[name] = r
	}
	m.rows = rows
	m.lastPoll = msg.at
	m.polls++
}

func (m model) View() string {
	var s strings.Builder

	status := "等待数据..."
	if !m.lastPoll.IsZero() {
		status = "更新于 " + m.lastPoll.Format("15:04:05")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("v20 报价 | %d 个品种 | %s", len(m.instruments), status)))
	s.WriteString("\n\n")

	var body strings.Builder
	body.WriteString(fmt.Sprintf("%-10s %12s %12s %12s %10s\n", "Instrument", "Bid", "Ask", "Mid", "Spread"))
	for _, name := range m.instruments {
		r, ok := m.rows[name]
		if !ok || !r.ok {
			line := fmt.Sprintf("%-10s %12s %12s %12s %10s", name, "-", "-", "-", "-")
			if ok && r.err != nil {
				line += "  " + errStyle.Render(r.err.Error())
			}
			body.WriteString(line + "\n")
			continue
		}
		mid := r.tick.Price()
		midStr := fmt.Sprintf("%12s", mid.StringFixed(5))
		switch {
		case r.prevMid.IsZero():
		case mid.GreaterThan(r.prevMid):
			midStr = upStyle.Render(midStr)
		case mid.LessThan(r.prevMid):
			midStr = downStyle.Render(midStr)
		}
		line := fmt.Sprintf("%-10s %12s %12s %s %10s", name,
			r.tick.Bid.String(), r.tick.Ask.String(), midStr, r.tick.Spread().String())
		if r.err != nil {
			line += "  " + errStyle.Render(r.err.Error())
		}
		body.WriteString(line + "\n")
	}
	s.WriteString(borderStyle.Render(strings.TrimRight(body.String(), "\n")))
	s.WriteString("\n\n按 r 刷新，q 退出\n")
	return s.String()
}

// Commands

func pollCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		if m.beforePoll != nil {
			m.beforePoll()
		}
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		msg := ticksMsg{ticks: map[string]types.Tick{}, errs: map[string]error{}, at: time.Now()}
		for _, name := range m.instruments {
			t, err := m.fetcher.FetchTick(ctx, name)
			if err != nil {
				if client.IsNotFound(err) {
					err = fmt.Errorf("未知品种")
				}
				msg.errs[name] = err
				continue
			}
			msg.ticks[name] = t
		}
		return msg
	}
}
