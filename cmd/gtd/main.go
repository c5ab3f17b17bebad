package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	"github.com/tgienger/gtd/internal/config"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/logging"
	"github.com/tgienger/gtd/internal/observe"
	"github.com/tgienger/gtd/internal/reminder"
	"github.com/tgienger/gtd/internal/repository"
	"github.com/tgienger/gtd/internal/ui"
	"github.com/tgienger/gtd/internal/viewmodel"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("gtd %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// the TUI owns the terminal, so logs go to a file
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	l := logging.New(logFile, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	store := db.NewStore(conn, l)
	defer store.Close()
	l.Info("database ready", "path", cfg.DatabasePath)

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, l)
	}

	// reminders firing before the program starts are dropped
	var program atomic.Pointer[tea.Program]
	deliver := func(r reminder.Reminder) {
		if p := program.Load(); p != nil {
			p.Send(ui.ReminderMsg(r))
		}
	}

	var scheduler reminder.Scheduler
	var redisScheduler *reminder.Redis
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", config.KeyRedisURL, err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		redisScheduler = reminder.NewRedis(client, reminder.DefaultKeyPrefix, l)
		scheduler = redisScheduler
	} else {
		scheduler = reminder.NewMemory(deliver)
	}

	lang, err := language.Parse(cfg.Language)
	if err != nil {
		l.Warn("unknown language, using English", "lang", cfg.Language)
		lang = language.English
	}

	queue := observe.NewQueue()
	status := ui.NewStatus(lang, l)
	repos := viewmodel.NewRepositories(store.NewSession(),
		repository.WithScheduler(scheduler),
		repository.WithLogger(l),
	)
	vm := viewmodel.New(store, repos, status,
		viewmodel.WithDispatcher(queue),
		viewmodel.WithUpcomingDays(cfg.UpcomingDays),
		viewmodel.WithLogger(l),
	)
	defer vm.Close()

	if redisScheduler == nil {
		restoreReminders(ctx, repos.Tasks, scheduler, l)
	}

	app := ui.NewApp(ctx, vm, queue, store, status, ui.WithLogger(l))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	program.Store(p)

	if redisScheduler != nil {
		go func() {
			if err := redisScheduler.Run(ctx, cfg.ReminderPoll, deliver); err != nil && !errors.Is(err, context.Canceled) {
				l.Error("reminder poller stopped", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// restoreReminders schedules the reminders of open tasks again, since the
// in-process scheduler forgets them when the program exits
func restoreReminders(ctx context.Context, tasks *repository.TaskRepository, s reminder.Scheduler, l logging.Logger) {
	active, err := tasks.FetchActiveTasks(ctx)
	if err != nil {
		l.Warn("failed to restore reminders", "error", err)
		return
	}

	now := time.Now()
	n := 0
	for _, t := range active {
		r, ok := reminder.For(t, now)
		if !ok {
			continue
		}
		if err := s.Schedule(ctx, r); err != nil {
			l.Warn("failed to schedule reminder", "task", t.ID, "error", err)
			continue
		}
		n++
	}
	l.Debug("reminders restored", "count", n)
}

func serveMetrics(ctx context.Context, addr string, l logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	l.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("metrics listener stopped", "error", err)
	}
}
