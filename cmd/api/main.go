package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/config"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	appHTTP "github.com/aquaclean/aquaclean-backend-go/internal/handler/http"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/jwt"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/storage"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/postgresql"
	attendanceService "github.com/aquaclean/aquaclean-backend-go/internal/service/attendance"
	serviceAuth "github.com/aquaclean/aquaclean-backend-go/internal/service/auth"
	dashboardService "github.com/aquaclean/aquaclean-backend-go/internal/service/dashboard"
	employeeService "github.com/aquaclean/aquaclean-backend-go/internal/service/employee"
	inventoryService "github.com/aquaclean/aquaclean-backend-go/internal/service/inventory"
	payrollService "github.com/aquaclean/aquaclean-backend-go/internal/service/payroll"
	reportService "github.com/aquaclean/aquaclean-backend-go/internal/service/report"
	saleService "github.com/aquaclean/aquaclean-backend-go/internal/service/sale"
	systemService "github.com/aquaclean/aquaclean-backend-go/internal/service/system"
)

const version = "v1.0.0"

// entityStore is the selected storage backend with its repositories.
type entityStore struct {
	tx       database.Transactor
	resetter system.StoreResetter
	pinger   database.Pinger
	repos    systemService.Repositories
	close    func()
}

func openStore(ctx context.Context, cfg *config.Config) (entityStore, error) {
	if cfg.Store.Driver == config.DriverMemory {
		store := memory.NewStore()
		return entityStore{
			tx:       store,
			resetter: store,
			pinger:   store,
			repos: systemService.Repositories{
				Users:      memory.NewUserRepository(store),
				Employees:  memory.NewEmployeeRepository(store),
				Items:      memory.NewItemRepository(store),
				Movements:  memory.NewMovementRepository(store),
				Sales:      memory.NewSaleRepository(store),
				Attendance: memory.NewAttendanceRepository(store),
				Sequences:  memory.NewSequenceRepository(store),
				Settings:   memory.NewSettingsRepository(store),
			},
			close: func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return entityStore{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return entityStore{}, err
	}
	return entityStore{
		tx:       postgresql.NewTransactor(db),
		resetter: postgresql.NewStoreResetter(db),
		pinger:   db,
		repos: systemService.Repositories{
			Users:      postgresql.NewUserRepository(db),
			Employees:  postgresql.NewEmployeeRepository(db),
			Items:      postgresql.NewItemRepository(db),
			Movements:  postgresql.NewMovementRepository(db),
			Sales:      postgresql.NewSaleRepository(db),
			Attendance: postgresql.NewAttendanceRepository(db),
			Sequences:  postgresql.NewSequenceRepository(db),
			Settings:   postgresql.NewSettingsRepository(db),
		},
		close: db.Close,
	}, nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.close()

	backupStorage, err := storage.NewLocalStorage(cfg.Backup.Dir)
	if err != nil {
		slog.Error("failed to initialize backup storage", "dir", cfg.Backup.Dir, "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()
	repos := store.repos

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	authService := serviceAuth.NewAuthService(repos.Users, JWTService)
	if err := authService.SeedAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		slog.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	ledger := inventoryService.NewLedger(store.tx, repos.Items, repos.Movements)
	employeeSvc := employeeService.NewEmployeeService(store.tx, repos.Employees, repos.Users, repos.Sequences, loc)
	inventorySvc := inventoryService.NewInventoryService(store.tx, repos.Items, repos.Movements, repos.Sequences, ledger, loc)
	saleSvc := saleService.NewSaleService(store.tx, repos.Sales, repos.Items, repos.Sequences, ledger, loc)
	attendanceSvc := attendanceService.NewAttendanceService(store.tx, repos.Attendance, repos.Employees, loc)
	payrollSvc := payrollService.NewPayrollService(repos.Employees, repos.Attendance, repos.Settings, cfg.Business.Currency, loc)
	dashboardSvc := dashboardService.NewDashboardService(repos.Employees, repos.Items, repos.Sales, repos.Attendance, loc)
	reportSvc := reportService.NewReportService(repos.Sales, repos.Items, payrollSvc, loc)
	systemSvc := systemService.NewSystemService(
		store.tx,
		store.resetter,
		store.pinger,
		backupStorage,
		repos,
		system.DefaultSettings(cfg.Business.Currency, cfg.Business.Timezone, cfg.Business.TaxRate),
		cfg.Store.Driver,
	)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        cfg.App.Name,
			Version:        version,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			StaticDir:      cfg.App.StaticDir,
			RateLimit:      cfg.RateLimit.Requests,
			RateWindow:     cfg.RateLimit.Window,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(JWTService, authService),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Inventory:  appHTTP.NewInventoryHandler(inventorySvc),
			Sale:       appHTTP.NewSaleHandler(saleSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
			Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
			Report:     appHTTP.NewReportHandler(reportSvc),
			System:     appHTTP.NewSystemHandler(systemSvc),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr, "driver", cfg.Store.Driver, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
