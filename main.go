package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"approval-flow-backend/config"
	apiv1 "approval-flow-backend/controllers/v1"
	"approval-flow-backend/fiberlog"
	"approval-flow-backend/initializers"
	"approval-flow-backend/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cfg, err := config.Init()
	if err != nil {
		log.Fatal(err)
	}
	initializers.InitAllServices(ctx, cfg)

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimitMb * 1024 * 1024,
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	apiv1.InitHealthApiRouters(app)

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiv1.InitAuthApiRouters(apiV1, cfg.Auth.JWTSecret)

	//операции, требующие аутентификации
	secured := fiber.New(fiber.Config{
		BodyLimit: cfg.BodyLimitMb * 1024 * 1024,
	})
	apiV1.Mount("/", secured)
	secured.Use(middleware.AuthorizationRequired(cfg.Auth.JWTSecret))
	apiv1.InitUserApiRouters(secured)
	apiv1.InitRequestApiRouters(secured)
	apiv1.InitAttachmentApiRouters(secured, int64(cfg.BodyLimitMb)*1024*1024)
	apiv1.InitWorkflowApiRouters(secured)
	apiv1.InitNotificationApiRouters(secured)

	app.Hooks().OnShutdown()

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", cfg.App.ListenAddr, cfg.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
