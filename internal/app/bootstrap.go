package app

import (
	"context"
	"fmt"
	"strings"

	"labor-board/internal/config"
	"labor-board/internal/delivery/http/handler"
	"labor-board/internal/delivery/http/middleware"
	"labor-board/internal/delivery/http/routes"
	"labor-board/internal/pkg/jwt"
	"labor-board/internal/repository"
	"labor-board/internal/session"
	"labor-board/internal/usecase"
	ucauth "labor-board/internal/usecase/auth"
	"labor-board/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	errMw := middleware.NewErrorMiddleware()
	accessMw := middleware.NewAccessLogMiddleware(container.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(container.DB)
	profileRepo := repository.NewPostgresProfileRepository(container.DB)
	jobRepo := repository.NewPostgresJobRepository(container.DB)
	appRepo := repository.NewPostgresApplicationRepository(container.DB)

	identity := usecase.ContextIdentity{}
	notifier := ws.NewNotifier(container.Hub)

	authSvc := ucauth.NewService(userRepo, container.Cache, cfg.OTP.CodeTTL, container.Logger)
	authUC := usecase.NewAuthUsecase(authSvc, userRepo, jwtSvc)
	profileUC := usecase.NewProfiles(profileRepo, identity)
	boardUC := usecase.NewBoard(jobRepo, appRepo, profileRepo, identity, notifier)

	sessionAdapter := session.NewAuthAdapter(authUC)
	sessionMachine := session.NewMachine(sessionAdapter, profileRepo)
	sessCtx, sessCancel := context.WithCancel(context.Background())
	go sessionMachine.Run(sessCtx, sessionAdapter.Events(sessCtx))

	wsHandler := ws.NewHandler(container.Hub, container.Logger)

	registry := routes.NewRegistry(routes.Deps{
		Health:       handler.NewHealthHandler(),
		Auth:         handler.NewAuthHandler(authUC),
		Profiles:     handler.NewProfileHandler(profileUC),
		Jobs:         handler.NewJobHandler(boardUC, profileUC),
		Session:      handler.NewSessionHandler(sessionMachine),
		RequireAuth:  authMw.Middleware(),
		OptionalAuth: authMw.Optional(),
		BoardWS:      wsHandler.HandleBoardWS,
	})
	registry.Register(f)

	cleanup := func() error {
		sessCancel()
		return container.Close()
	}
	return &App{Fiber: f}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
