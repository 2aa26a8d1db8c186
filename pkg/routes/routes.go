package pkg

import (
	"context"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"BirthdayRoster/internal/config"
	"BirthdayRoster/internal/employee"
	"BirthdayRoster/internal/notification"
	"BirthdayRoster/internal/settings"
)

var RosterModules = fx.Module("roster",
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewStorageConfig),
	fx.Provide(config.NewMailConfig),
	fx.Provide(config.NewMailer),
	fx.Provide(config.NewScheduleConfig),
	fx.Provide(employee.NewRepository),
	fx.Provide(employee.NewStore),
	fx.Provide(employee.NewHandler),
	fx.Provide(settings.NewRepository),
	fx.Provide(settings.NewStore),
	fx.Provide(settings.NewHandler),
	fx.Provide(notification.NewService),
	fx.Provide(notification.NewScheduler),
	fx.Provide(notification.NewHandler),
	fx.Provide(NewEchoServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(StartScheduler),
)

func NewEchoServer(lc fx.Lifecycle, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("server starting", zap.String("addr", addr))
			go func() {
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down the server")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	employees *employee.Handler,
	settingsHandler *settings.Handler,
	notifications *notification.Handler,
) {
	api := e.Group("/api")

	api.GET("/employees", employees.List)
	api.POST("/employees", employees.Create)
	api.PUT("/employees/:id", employees.Update)
	api.DELETE("/employees/:id", employees.Delete)
	api.GET("/cost-centers", employees.CostCenters)
	api.GET("/cost-centers/:code/employees", employees.ByCostCenter)

	api.GET("/settings", settingsHandler.Get)
	api.PUT("/settings", settingsHandler.Put)
	api.PUT("/settings/gf", settingsHandler.PutGF)
	api.PUT("/settings/departments", settingsHandler.PutDepartmentEmail)
	api.DELETE("/settings/departments/:costCenter", settingsHandler.DeleteDepartmentEmail)

	api.POST("/birthday-check", notifications.RunCheck)
}

func StartScheduler(s *notification.Scheduler, lc fx.Lifecycle) {
	s.Start(lc)
}
