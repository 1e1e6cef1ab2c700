package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrJamesThe3rd/pdv/internal/auth"
	"github.com/MrJamesThe3rd/pdv/internal/config"
	"github.com/MrJamesThe3rd/pdv/internal/export"
	pdvHttp "github.com/MrJamesThe3rd/pdv/internal/http"
	authHandler "github.com/MrJamesThe3rd/pdv/internal/http/auth"
	cartHandler "github.com/MrJamesThe3rd/pdv/internal/http/cart"
	cashHandler "github.com/MrJamesThe3rd/pdv/internal/http/cashregister"
	clientHandler "github.com/MrJamesThe3rd/pdv/internal/http/client"
	exchangeHandler "github.com/MrJamesThe3rd/pdv/internal/http/exchange"
	exportHandler "github.com/MrJamesThe3rd/pdv/internal/http/export"
	labelHandler "github.com/MrJamesThe3rd/pdv/internal/http/label"
	notificationHandler "github.com/MrJamesThe3rd/pdv/internal/http/notification"
	productHandler "github.com/MrJamesThe3rd/pdv/internal/http/product"
	saleHandler "github.com/MrJamesThe3rd/pdv/internal/http/sale"
	settingsHandler "github.com/MrJamesThe3rd/pdv/internal/http/settings"
	"github.com/MrJamesThe3rd/pdv/internal/http/static"
	"github.com/MrJamesThe3rd/pdv/internal/importer"
	"github.com/MrJamesThe3rd/pdv/internal/pdv"
	"github.com/MrJamesThe3rd/pdv/internal/storage"
)

func main() {
	hashPIN := flag.String("hash-pin", "", "print the bcrypt hash of a PIN for AUTH_PIN_HASH and exit")
	flag.Parse()

	if *hashPIN != "" {
		hash, err := auth.HashPIN(*hashPIN)
		if err != nil {
			slog.Error("failed to hash pin", "error", err)
			os.Exit(1)
		}

		fmt.Println(hash)

		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := pdv.NewService(store, pdv.Options{
		LowStockThreshold: cfg.Stock.LowThreshold,
		Debounce:          cfg.Stock.Debounce,
		Location:          time.Local,
		Logger:            slog.Default(),
		Seed:              cfg.App.Seed,
	})
	defer svc.Close()

	if err := svc.Init(ctx); err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	var (
		importService = importer.NewService()
		exportService = export.NewService(svc)
		authService   = auth.NewService(cfg.Auth.Secret, cfg.Auth.PINHash, cfg.Auth.TokenTTL)
	)

	if !authService.Enabled() {
		slog.Warn("AUTH_SECRET is empty, the API is open")
	}

	handlers := pdvHttp.Handlers{
		Auth:          authHandler.NewHandler(authService),
		Products:      productHandler.NewHandler(svc, importService),
		Clients:       clientHandler.NewHandler(svc),
		Cart:          cartHandler.NewHandler(svc),
		Sales:         saleHandler.NewHandler(svc),
		Exchanges:     exchangeHandler.NewHandler(svc),
		Settings:      settingsHandler.NewHandler(svc),
		Notifications: notificationHandler.NewHandler(svc),
		CashRegister:  cashHandler.NewHandler(svc),
		Labels:        labelHandler.NewHandler(svc),
		Export:        exportHandler.NewHandler(exportService, svc.Location()),
	}

	var spa http.Handler
	if info, err := os.Stat(cfg.App.StaticDir); err == nil && info.IsDir() {
		spa = static.NewHandler(os.DirFS(cfg.App.StaticDir))
	} else {
		slog.Warn("static bundle not found, serving the API only", "dir", cfg.App.StaticDir)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      pdvHttp.New(handlers, authService, cfg.Server.AllowedOrigins, spa),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr, "store", cfg.Store.Driver)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
