package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/middleware"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/jwt"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the transport settings taken from config.
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	StaticDir      string
	RateLimit      int
	RateWindow     time.Duration
}

type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Inventory  InventoryHandler
	Sale       SaleHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
	System     SystemHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(metrics.Middleware)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			r.Use(httprate.Limit(opts.RateLimit, opts.RateWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					response.TooManyRequests(w, "Too many requests, please try again later")
				}),
			))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Get("/me", h.Auth.Me)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// Kiosk routes identify the employee by code
			r.Post("/clock-in", h.Attendance.ClockIn)
			r.Post("/clock-out", h.Attendance.ClockOut)
			r.Post("/break/start", h.Attendance.StartBreak)
			r.Post("/break/end", h.Attendance.EndBreak)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)
				r.Get("/{id}", h.Attendance.Get)
				r.Get("/employee/{employeeId}", h.Attendance.GetEmployeeSummary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Attendance.List)
					r.Post("/", h.Attendance.Create)
					r.Get("/statistics/overview", h.Attendance.GetStatistics)
					r.Put("/{id}", h.Attendance.Update)
					r.Put("/{id}/approve", h.Attendance.Approve)
				})

				r.With(middleware.RequireAdmin).Delete("/{id}", h.Attendance.Delete)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Employee.ListEmployees)
					r.Post("/", h.Employee.CreateEmployee)
					r.Get("/statistics/overview", h.Employee.GetStatistics)
					r.Get("/department/{department}", h.Employee.ListByDepartment)
					r.Get("/position/{position}", h.Employee.ListByPosition)
					r.Put("/{id}", h.Employee.UpdateEmployee)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Put("/{id}/status", h.Employee.UpdateStatus)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Inventory.ListItems)
					r.Post("/", h.Inventory.CreateItem)
					r.Get("/statistics/overview", h.Inventory.GetStatistics)
					r.Get("/statistics/movements", h.Inventory.GetMovementStatistics)
					r.Get("/low-stock/items", h.Inventory.ListLowStock)
					r.Get("/expiring/items", h.Inventory.ListExpiring)
					r.Get("/{id}", h.Inventory.GetItem)
					r.Put("/{id}", h.Inventory.UpdateItem)
					r.Put("/{id}/stock", h.Inventory.UpdateStock)
					r.Get("/{id}/movements", h.Inventory.ListMovements)
				})

				r.With(middleware.RequireAdmin).Delete("/{id}", h.Inventory.DeleteItem)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Sale.ListSales)
					r.Post("/", h.Sale.CreateSale)
					r.Get("/statistics/overview", h.Sale.GetStatistics)
					r.Get("/top-items/list", h.Sale.GetTopItems)
					r.Get("/{id}", h.Sale.GetSale)
					r.Put("/{id}", h.Sale.UpdateSale)
				})

				r.With(middleware.RequireAdmin).Delete("/{id}", h.Sale.DeleteSale)
			})

			r.Route("/salary", func(r chi.Router) {
				r.Get("/{employeeId}", h.Payroll.GetEmployeeSalary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", h.Payroll.ListSalaries)
					r.Post("/calculate", h.Payroll.Calculate)
					r.Get("/statistics/overview", h.Payroll.GetStatistics)
				})
			})

			r.With(middleware.RequireManager).Get("/dashboard", h.Dashboard.GetDashboard)

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/sales.xlsx", h.Report.GetSalesReport)
				r.Get("/inventory.xlsx", h.Report.GetInventoryReport)
				r.Get("/payroll.xlsx", h.Report.GetPayrollReport)
			})

			r.Route("/system", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/settings", h.System.GetSettings)
				r.Put("/settings", h.System.UpdateSettings)
				r.Post("/backup", h.System.Backup)
				r.Get("/backups", h.System.ListBackups)
				r.Post("/restore", h.System.Restore)
				r.Get("/health", h.System.Health)
			})
		})
	})
	return r
}
