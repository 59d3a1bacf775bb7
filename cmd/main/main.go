package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-twin/src/config"
	"market-twin/src/helpers"
	"market-twin/src/interfaces"
	"market-twin/src/logger"
	"market-twin/src/reports"
	"market-twin/src/server"
	"market-twin/src/storage"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	// Setup storage
	var db interfaces.IDatabase

	switch conf.Storage.DBType {
	case "postgres":
		db, err = storage.NewPostgresDB(conf.MConfig, appLogger)
	default:
		// Default to SQLite
		db, err = storage.NewSQLiteDB(conf.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
	}
	// Transient open/ping failures (locked sqlite file, postgres still
	// starting) deserve a few attempts before giving up
	if err := helpers.RetryWithBackoff("database initialization", 3, time.Second, appLogger, db.Initialize); err != nil {
		appLogger.Critical("Failed to migrate db: %v", err)
	}
	if err := db.CleanupOldData(); err != nil {
		appLogger.Warning("Startup cleanup failed: %v", err)
	}

	// Reports plane
	builder := reports.NewStorageReportBuilder(db)
	exporter := reports.NewDefaultExporter()
	pipeline := reports.NewPipeline(builder, exporter, conf.Reports.MaxConcurrent)
	archive := reports.NewArchive(conf.Reports.Dir)

	// Server, behind the exchanger contract the rest of main talks to
	var srv interfaces.IDataExchanger = server.NewDashboardServer(conf.MConfig, appLogger, pipeline, archive)

	// Scheduled daily report (optional; absence degrades gracefully)
	scheduler := reports.NewScheduler(logger.NewLogger(conf.LogLevel, "Scheduler"))
	if conf.Reports.Schedule.Enabled {
		sched := conf.Reports.Schedule
		job := reports.NewDailyReportJob(pipeline, archive, sched, appLogger)
		if !scheduler.ScheduleDaily("daily_full_report", sched.Hour, sched.Minute, sched.Timezone, job) {
			appLogger.Warning("Daily report scheduling unavailable; continuing without it")
		}
	}

	// Graceful shutdown on signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		appLogger.Info("Received signal %v, shutting down", sig)
		scheduler.Stop()
		srv.Stop()
		if err := db.Close(); err != nil {
			appLogger.Warning("Failed to close db: %v", err)
		}
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		appLogger.Critical("Server failed: %v", err)
	}
}
