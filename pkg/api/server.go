package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/commute/pkg/api/routes"
	"github.com/travigo/commute/pkg/commute"
)

type ServerOptions struct {
	ClientAccessKey string

	Auth0Domain   string
	Auth0Audience string

	PushTargets routes.PushTargetRegistry
}

func NewApp(environment *commute.Environment, options ServerOptions) (*fiber.App, error) {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	webApp.Use(TraceID())
	webApp.Use(NewLogger())
	webApp.Use(SecurityHeaders())

	webApp.Get("ping", routes.Ping)

	var auth fiber.Handler
	if options.Auth0Domain != "" {
		var err error
		auth, err = EnsureValidToken(options.Auth0Domain, options.Auth0Audience)
		if err != nil {
			return nil, err
		}
	} else {
		auth = EnsureClientAccessKey(options.ClientAccessKey)
	}

	group := webApp.Group("/", auth)

	group.Get("version", routes.APIVersion)

	routes.CommuteRouter(group, environment.Service)

	routes.TubesRouter(group.Group("/tubes"), environment.TfL)
	routes.BusesRouter(group.Group("/buses"), environment.TfL, environment.Routes)
	routes.TrainsRouter(group.Group("/trains"), environment.TransportAPI)

	if options.PushTargets != nil {
		routes.AccountRouter(group.Group("/account"), options.PushTargets)
	}

	return webApp, nil
}
