package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"AHRSentinel/internal/collector"
	"AHRSentinel/internal/metrics"
	"AHRSentinel/internal/model"
	"AHRSentinel/internal/notifier"
	"AHRSentinel/internal/pipeline"
	"AHRSentinel/internal/recorder"
	"AHRSentinel/internal/report"
	"AHRSentinel/internal/series"
)

// Paths are the files a report run reads and writes.
type Paths struct {
	PriceFile     string
	ReportFile    string
	DashboardFile string
}

// Scheduler manages the daily update and report tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Updater  *collector.Updater
	Pipeline pipeline.Config
	Paths    Paths
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
	Ctx      context.Context

	// Now is the clock used for the update date.
	Now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, upd *collector.Updater, pc pipeline.Config, paths Paths,
	tn *notifier.TelegramNotifier, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Updater:  upd,
		Pipeline: pc,
		Paths:    paths,
		Notifier: tn,
		Recorder: rec,
		Metrics:  m,
		Ctx:      ctx,
		Now:      time.Now,
	}
}

// Register adds the daily update-and-report task.
func (s *Scheduler) Register(updateCron string) error {
	if _, err := s.Cron.AddFunc(updateCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily task")
	if _, err := s.UpdatePrice(s.Ctx); err != nil {
		log.Printf("[ERROR] daily update: %v", err)
		s.trySend(fmt.Sprintf("❌ 价格更新失败: %v", err))
	}
	r, err := s.BuildReport(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] daily report: %v", err)
		s.trySend(fmt.Sprintf("❌ 报告生成失败: %v", err))
		return
	}
	s.Notify(r)
}

// Notify sends the daily report, and a buy signal when the latest day triggered one.
// No-op without Telegram credentials.
func (s *Scheduler) Notify(r *model.Report) {
	s.trySend(notifier.FormatDailyReport(r))
	if msg := notifier.FormatBuySignal(r); msg != "" {
		s.trySend(msg)
	}
}

// UpdatePrice fetches today's price into the price file.
func (s *Scheduler) UpdatePrice(ctx context.Context) (model.Observation, error) {
	obs, err := s.Updater.Update(ctx, s.Now())
	if err != nil {
		return obs, err
	}
	if err := s.Recorder.RecordPriceUpdate(&recorder.PriceUpdateEvent{
		Date:   obs.Date.Format(model.DateLayout),
		Price:  obs.Price.InexactFloat64(),
		Source: s.Updater.Fetcher.Name(),
	}); err != nil {
		log.Printf("[ERROR] record price update: %v", err)
	}
	return obs, nil
}

// BuildReport recomputes the report from the price file and writes every output.
func (s *Scheduler) BuildReport(ctx context.Context) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	r, err := s.buildReport()
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.ObserveFailure()
		}
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.ObserveReport(r, time.Since(started))
	}

	if id, err := s.Recorder.RecordReport(r); err != nil {
		log.Printf("[ERROR] record report: %v", err)
	} else {
		log.Printf("[INFO] report recorded: run %s", id)
	}
	if err := s.Recorder.RecordHistory(r.History); err != nil {
		log.Printf("[ERROR] record history: %v", err)
	}

	logSummary(r)
	return r, nil
}

func (s *Scheduler) buildReport() (*model.Report, error) {
	ser, err := series.LoadFile(s.Paths.PriceFile)
	if err != nil {
		return nil, err
	}
	obs := ser.Observations()
	if len(obs) > 0 {
		log.Printf("[INFO] data range: %s to %s (%d days)",
			obs[0].Date.Format(model.DateLayout), obs[len(obs)-1].Date.Format(model.DateLayout), len(obs))
	}

	r, err := pipeline.Run(obs, s.Pipeline)
	if err != nil {
		return nil, err
	}

	if err := report.Save(s.Paths.ReportFile, r); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if s.Paths.DashboardFile != "" {
		var buf bytes.Buffer
		if err := report.RenderHTML(&buf, r); err != nil {
			return nil, fmt.Errorf("render dashboard: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(s.Paths.DashboardFile), 0755); err != nil {
			return nil, fmt.Errorf("create dashboard dir: %w", err)
		}
		if err := os.WriteFile(s.Paths.DashboardFile, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("write dashboard: %w", err)
		}
	}
	return r, nil
}

func logSummary(r *model.Report) {
	if v, ok := r.CurrentIndicator.Get(); ok {
		log.Printf("[INFO] %s price $%s AHR999 %.4f (%s)", r.AsOf.Format(model.DateLayout),
			report.FormatMoney(r.CurrentPrice), v, r.CurrentZone.Label)
	} else {
		log.Printf("[INFO] %s price $%s AHR999 N/A", r.AsOf.Format(model.DateLayout), report.FormatMoney(r.CurrentPrice))
	}
	for _, sm := range r.Summaries {
		log.Printf("[INFO] threshold <= %v: purchases=%d invested=$%s btc=%s value=$%s profit=$%s roi=%s%%",
			sm.Threshold, sm.PurchaseCount, report.FormatMoney(sm.CumulativeSpent), sm.CumulativeQuantity.StringFixed(8),
			report.FormatMoney(sm.MarketValue), report.FormatMoney(sm.Profit), sm.ReturnRatio.Shift(2).StringFixed(2))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "查看AHR999", "/ahr999":
		r, err := report.Load(s.Paths.ReportFile)
		if err != nil || r == nil {
			return "暂无报告"
		}
		return notifier.FormatDailyReport(r)
	case "查看定投", "/summary":
		r, err := report.Load(s.Paths.ReportFile)
		if err != nil || r == nil {
			return "暂无报告"
		}
		return notifier.FormatSummaries(r)
	case "立即更新", "/update":
		s.dailyTask()
		return ""
	default:
		return "可用命令:\n• 查看AHR999\n• 查看定投\n• 立即更新"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
