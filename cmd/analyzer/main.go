package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron"

	"SurveyPulse/src/config"
	"SurveyPulse/src/datapush"
	"SurveyPulse/src/dataset"
	"SurveyPulse/src/datasource/email"
	"SurveyPulse/src/datasource/file"
	"SurveyPulse/src/report"
	"SurveyPulse/src/storage"
)

func main() {
	configDir := flag.String("config", "./config", "directorio con config.json y surveyconfig.json")
	watch := flag.Bool("watch", false, "seguir corriendo: vigila el directorio de datos y el buzón")
	push := flag.Bool("push", false, "enviar el informe por correo al terminar cada análisis")
	flag.Parse()

	cfg, scfg, err := config.LoadConfig(*configDir, "config.json", "surveyconfig.json")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logName := cfg.LogName
	if logName == "" {
		logName = "analyzer.log"
	}
	logger, err := storage.NewLogger(logName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	if maxSize, err := storage.ParseSize(cfg.LogMaxSize); err == nil && maxSize > 0 {
		logger.CheckRotate(maxSize)
	}

	if err := runAnalysis(cfg, scfg, logger, *push); err != nil {
		// 主数据集读不了, 流水线到此为止
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		if !*watch {
			os.Exit(1)
		}
	}

	if !*watch {
		return
	}

	if err := watchLoop(cfg, scfg, logger, *push); err != nil {
		logger.Error(err.Error())
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// runAnalysis 执行一轮完整分析
func runAnalysis(cfg *config.Config, scfg *config.SurveyConfig, logger *storage.Logger, push bool) error {
	path := filepath.Join(cfg.DataDir, cfg.PrimaryFile)
	logger.Info(fmt.Sprintf("loading primary dataset %s", path))

	t1 := time.Now()
	df, err := file.ReadFile(path, scfg.SheetName)
	if err != nil {
		logger.Error(fmt.Sprintf("load %s: %v", path, err))
		return fmt.Errorf("load primary dataset %s: %w", path, err)
	}

	ds := dataset.New(df)
	analysis, err := report.BuildAnalysis(ds, scfg, path)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	logger.Info(fmt.Sprintf("analysis done in %v", time.Since(t1)))

	report.WriteAnalysis(os.Stdout, analysis)

	reportPath := ""
	if scfg.ReportFile != "" {
		reportPath = filepath.Join(cfg.DataDir, scfg.ReportFile)
		if err := report.ExportAnalysis(analysis, reportPath); err != nil {
			logger.Error(err.Error())
			return err
		}
		logger.Info(fmt.Sprintf("workbook exported to %s", reportPath))
	}

	if push {
		var body bytes.Buffer
		report.WriteAnalysis(&body, analysis)
		if err := datapush.SendReport(cfg, body.String(), reportPath); err != nil {
			logger.Error(err.Error())
			return err
		}
		logger.Info("report mailed")
	}

	return nil
}

// watchLoop 常驻模式: fsnotify盯数据目录, cron定时查邮箱
func watchLoop(cfg *config.Config, scfg *config.SurveyConfig, logger *storage.Logger, push bool) error {
	// 常驻时把日志同时回显到stderr
	logChan := logger.Subscribe()
	go func() {
		for entry := range logChan {
			fmt.Fprint(os.Stderr, entry)
		}
	}()

	monitor, err := file.NewMonitor(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.DataDir, err)
	}
	defer monitor.Close()

	go func() {
		err := monitor.Watch(func(path string) {
			// 导出的报告工作簿也会触发事件, 跳过
			if scfg.ReportFile != "" && filepath.Base(path) == scfg.ReportFile {
				return
			}
			logger.Info(fmt.Sprintf("data file updated: %s", path))
			if err := runAnalysis(cfg, scfg, logger, push); err != nil {
				logger.Error(err.Error())
			}
		})
		if err != nil {
			logger.Error("file monitoring error: " + err.Error())
		}
	}()

	emailClient := email.NewEmailClient(
		cfg.Email.Server,
		cfg.Email.Username,
		cfg.Email.Password)
	handler := email.NewExportAttachmentHandler(cfg.Email.TargetSubject, cfg.DataDir)

	c := cron.New()
	interval := time.Duration(cfg.Email.CheckInterval)
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	cronSpec := fmt.Sprintf("@every %s", interval)

	err = c.AddFunc(cronSpec, func() {
		newEmail, err := email.CheckAndProcessEmails(emailClient, cfg.Email.TargetSubject, logger)
		if err != nil {
			logger.Error("mailbox check failed: " + err.Error())
			return
		}
		if newEmail == nil {
			return
		}

		saved, err := handler.Handle(newEmail)
		if err != nil {
			logger.Error(fmt.Sprintf("save attachments (UID %d): %v", newEmail.UID, err))
			return
		}
		for _, p := range saved {
			logger.Info("saved survey export: " + p)
		}
		// 落盘会触发文件监控, 分析由那条路径重跑
	})
	if err != nil {
		return fmt.Errorf("schedule mailbox check: %w", err)
	}

	c.Start()
	defer c.Stop()

	logger.Info(fmt.Sprintf("watch mode started (mailbox every %v), Ctrl+C to exit", interval))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("received signal " + sig.String() + ", shutting down")
	return nil
}
