// Package main is the entry point for the notuid notification daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/notui/internal/audio"
	"github.com/jmylchreest/notui/internal/config"
	"github.com/jmylchreest/notui/internal/dbus"
	"github.com/jmylchreest/notui/internal/display"
	"github.com/jmylchreest/notui/internal/icon"
	"github.com/jmylchreest/notui/internal/notification"
	"github.com/jmylchreest/notui/internal/queue"
	"github.com/jmylchreest/notui/internal/render"
	"github.com/jmylchreest/notui/internal/store"
)

const appID = "io.github.jmylchreest.notuid"

// Mouse buttons as reported by the click gesture.
const (
	buttonLeft   = 1
	buttonMiddle = 2
	buttonRight  = 3
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/notui/notuid.toml)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("notuid version", version)
		os.Exit(0)
	}

	// Set up structured logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	runDaemon(logger, *configPath)
}

// runDaemon runs notuid as the notification daemon owning the bus name.
func runDaemon(logger *slog.Logger, configPath string) {
	logger.Info("starting notuid", "version", version)

	if configPath == "" {
		configPath = config.SettingsPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create the libadwaita application
	app := adw.NewApplication(appID, 0)

	// Shared state between the GTK main loop and the signal handler. The
	// queue, engine and window are only ever touched from the main loop;
	// D-Bus and timer goroutines hop over with glib.IdleAdd.
	var (
		window        *display.Window
		engine        *render.Engine
		q             *queue.Queue
		server        *dbus.NotificationServer
		audioManager  *audio.Manager
		persistence   *store.JSONLPersistence
		configWatcher *config.Watcher
		running       atomic.Bool
	)

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
		glib.IdleAdd(func() {
			app.Quit()
		})
	}()

	// Handle application activation
	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		historyPath := settings.HistoryFile()
		var seeded []*notification.Notification
		persistence, seeded = openHistory(historyPath, logger)
		if persistence != nil {
			logger.Info("history loaded", "path", historyPath, "count", len(seeded))
		}

		q = queue.New(settings)
		q.SeedHistory(seeded)

		win, err := display.NewWindow(&app.Application, settings, logger)
		if err != nil {
			logger.Error("failed to create notification window", "error", err)
			app.Quit()
			return
		}
		window = win

		engine = render.NewEngine(window, display.NewShaper(), newIconLoader(settings, logger), settings, logger)
		audioManager = audio.NewManager(settings, logger)

		// refresh promotes waiting notifications and repaints the stack,
		// hiding the window when nothing is left on screen.
		refresh := func() {
			q.Update(time.Now())
			displayed := q.Displayed()
			if len(displayed) == 0 {
				window.Hide()
				return
			}
			engine.Repaint(displayed, q.Hidden())
		}

		// emitClosed reports a closed notification to the sender and the
		// history file.
		emitClosed := func(n *notification.Notification, reason queue.CloseReason) {
			if err := server.EmitNotificationClosed(n.ID, uint32(reason)); err != nil {
				logger.Warn("failed to emit NotificationClosed signal", "id", n.ID, "error", err)
			}
			if persistence != nil && !n.Transient {
				if err := persistence.Append(n); err != nil {
					logger.Warn("failed to persist notification", "key", n.Key, "error", err)
				}
			}
		}

		// Initialize D-Bus server
		server = dbus.NewNotificationServer(logger)
		server.SetServerInfo(dbus.ServerInfo{
			Name:        "notuid",
			Vendor:      "notui",
			Version:     version,
			SpecVersion: "1.2",
		})

		server.SetNotifyHandler(func(n *notification.Notification) {
			glib.IdleAdd(func() {
				n.FormatMessage(settings.Display.Format, settings.MarkupMode(), settings.Display.IgnoreNewline)
				q.Push(n, time.Now())
				audioManager.Play(n)
				refresh()
			})
		})

		server.SetCloseHandler(func(id uint32) {
			glib.IdleAdd(func() {
				if n := q.Close(id); n != nil {
					emitClosed(n, queue.ReasonRequested)
					refresh()
				}
			})
		})

		// Click dismissal: left and middle close the card under the
		// pointer, right clears the whole stack.
		window.OnClick(func(x, y int, button uint) {
			switch button {
			case buttonRight:
				for _, n := range q.CloseAll() {
					emitClosed(n, queue.ReasonDismissed)
				}
			case buttonLeft, buttonMiddle:
				n := engine.CardAt(q.Displayed(), y)
				if n == nil {
					return
				}
				if closed := q.CloseByKey(n.Key); closed != nil {
					emitClosed(closed, queue.ReasonDismissed)
				}
			default:
				return
			}
			refresh()
		})

		// Start D-Bus server
		if err := server.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			app.Quit()
			return
		}

		// Expiry sweep: a plain ticker that hops to the main loop. The
		// repaint also keeps the age suffixes current.
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					glib.IdleAdd(func() {
						closed := q.Sweep(time.Now())
						for _, c := range closed {
							emitClosed(c.N, c.Reason)
						}
						if len(closed) > 0 || len(q.Displayed()) > 0 || q.Hidden() > 0 {
							refresh()
						}
					})
				}
			}
		}()

		// Config hot-reload
		watcher, err := config.NewWatcher(configPath, func(newSettings *config.Settings) {
			glib.IdleAdd(func() {
				settings = newSettings
				q.Reconfigure(newSettings)
				window.Reconfigure(newSettings)
				engine.Reconfigure(newSettings, newIconLoader(newSettings, logger))
				audioManager.Reconfigure(newSettings)
				refresh()
				logger.Info("configuration reloaded", "path", configPath)
			})
		})
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		} else {
			configWatcher = watcher
		}

		logger.Info("notuid ready", "dbus_interface", dbus.DBusInterface, "history", historyPath)
	})

	// Handle shutdown
	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if configWatcher != nil {
			_ = configWatcher.Stop()
		}
		if audioManager != nil {
			audioManager.Stop()
		}
		if server != nil {
			_ = server.Stop()
		}
		if persistence != nil {
			if q != nil {
				if err := persistence.Rewrite(q.History()); err != nil {
					logger.Warn("failed to flush history", "error", err)
				}
			}
			_ = persistence.Close()
		}
		running.Store(false)
	})

	// Run the application. GTK gets no arguments: flags were already
	// consumed by the flag package.
	status := app.Run(os.Args[:1])

	cancel()

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("notuid stopped")
}

// openHistory opens the history file and loads its records, attempting a
// one-shot recovery when the file is unreadable. A nil persistence just
// disables history for the session.
func openHistory(path string, logger *slog.Logger) (*store.JSONLPersistence, []*notification.Notification) {
	p, err := store.NewJSONLPersistence(path)
	if err != nil {
		logger.Warn("failed to open history file", "path", path, "error", err)
		return nil, nil
	}

	loaded, err := p.Load()
	if err == nil {
		return p, loaded
	}

	logger.Warn("history file unreadable, attempting recovery", "path", path, "error", err)
	_ = p.Close()
	if err := store.RecoverFromCorruption(path); err != nil {
		logger.Warn("history recovery failed", "path", path, "error", err)
	}

	p, err = store.NewJSONLPersistence(path)
	if err != nil {
		logger.Warn("failed to reopen history file", "path", path, "error", err)
		return nil, nil
	}
	loaded, err = p.Load()
	if err != nil {
		logger.Warn("history still unreadable, starting empty", "path", path, "error", err)
		return p, nil
	}
	return p, loaded
}

// newIconLoader builds an icon loader from the current settings.
func newIconLoader(settings *config.Settings, logger *slog.Logger) *icon.Loader {
	return icon.NewLoader(display.PixbufDecoder{}, settings.IconSearchPath(), settings.Icons.MaxSize, logger)
}
