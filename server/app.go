package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dialplan/config"
	"dialplan/internal/ami"
	"dialplan/internal/api"
	"dialplan/internal/health"
	"dialplan/internal/logs"
	"dialplan/internal/middleware"
	"dialplan/internal/repo"

	"github.com/gorilla/mux"
)

type App struct {
	cfg        *config.Config
	store      *repo.Store
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) Хранилище инвентаря */
	store, err := repo.NewStore(a.cfg.Paths.InventoryDir, a.cfg.Paths.SecretsFile, a.cfg.Backup.MaxBackups)
	if err != nil {
		log.Fatalf("inventory store init failed: %v", err)
	}
	a.store = store

	/* 3) Asterisk (опционально) */
	var notify func()
	if a.cfg.Asterisk.Enabled {
		client := ami.NewClient(ami.Config{
			Host:     a.cfg.Asterisk.Host,
			Port:     a.cfg.Asterisk.Port,
			Username: a.cfg.Asterisk.Username,
			Password: a.cfg.Asterisk.Password,
		})
		rl := ami.Reloader{
			Attempts: a.cfg.Asterisk.RetryAttempts,
			Delay:    time.Duration(a.cfg.Asterisk.RetryDelaySec) * time.Second,
		}
		notify = func() {
			rl.Run("pjsip reload", client.ReloadPJSIP)
			rl.Run("dialplan reload", client.ReloadDialplan)
		}
	}

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 5) Health */
	health.RegisterRoutesWithStore(a.Router, a.store.Dir()) // /healthz, /readyz

	/* 6) REST + provisioning */
	api.RegisterRoutes(a.Router, api.NewHandler(a.store, a.cfg.VendorOUI, notify))

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
