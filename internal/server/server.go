package server

import (
	"net/http"

	"pkl-club-api/internal/handler"
	custommw "pkl-club-api/internal/middleware"
	"pkl-club-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// requestValidator plugs go-playground/validator into echo's Validate.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type Server struct {
	echo *echo.Echo

	jwtSecret string

	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	locationHandler     *handler.LocationHandler
	tournamentHandler   *handler.TournamentHandler
	registrationHandler *handler.RegistrationHandler
	eventHandler        *handler.EventHandler
	paymentHandler      *handler.PaymentHandler
	dashboardHandler    *handler.DashboardHandler
}

func NewServer(
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	locationService service.LocationService,
	tournamentService service.TournamentService,
	registrationService service.RegistrationService,
	eventService service.EventService,
	paymentService service.PaymentService,
	dashboardService service.DashboardService,
) *Server {
	e := echo.New()

	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:                e,
		jwtSecret:           jwtSecret,
		authHandler:         handler.NewAuthHandler(authService),
		userHandler:         handler.NewUserHandler(userService),
		locationHandler:     handler.NewLocationHandler(locationService),
		tournamentHandler:   handler.NewTournamentHandler(tournamentService),
		registrationHandler: handler.NewRegistrationHandler(registrationService),
		eventHandler:        handler.NewEventHandler(eventService),
		paymentHandler:      handler.NewPaymentHandler(paymentService),
		dashboardHandler:    handler.NewDashboardHandler(dashboardService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	auth := custommw.Auth(s.jwtSecret)

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	api.POST("/auth/login", s.authHandler.Login)
	api.GET("/auth/profile", s.authHandler.Profile, auth)

	// -------- users --------
	api.POST("/users/signup", s.userHandler.Signup)
	users := api.Group("/users", auth)
	users.POST("", s.userHandler.CreateUser)
	users.GET("", s.userHandler.ListUsers)
	users.GET("/search", s.userHandler.SearchUsers)
	users.GET("/:id", s.userHandler.GetUser)
	users.PATCH("/:id", s.userHandler.UpdateUser)
	users.DELETE("/:id", s.userHandler.DeleteUser)
	users.PATCH("/:id/passes", s.userHandler.GrantPasses)

	// -------- locations --------
	locations := api.Group("/locations")
	locations.GET("/countries", s.locationHandler.ListCountries)
	locations.POST("/countries", s.locationHandler.CreateCountry, auth)
	locations.GET("/countries/:countryCode/regions", s.locationHandler.ListRegions)
	locations.POST("/regions", s.locationHandler.CreateRegion, auth)
	locations.GET("/cities", s.locationHandler.ListCities)
	locations.POST("/cities", s.locationHandler.CreateCity, auth)
	locations.PATCH("/cities/:id/status", s.locationHandler.UpdateCityStatus, auth)

	// -------- tournaments --------
	tournaments := api.Group("/tournaments")
	tournaments.GET("", s.tournamentHandler.ListTournaments)
	tournaments.POST("", s.tournamentHandler.CreateTournament, auth)
	tournaments.GET("/city/:cityCode", s.tournamentHandler.GetByCityCode)
	tournaments.GET("/:id", s.tournamentHandler.GetTournament)
	tournaments.PATCH("/:id", s.tournamentHandler.UpdateTournament, auth)
	tournaments.DELETE("/:id", s.tournamentHandler.DeleteTournament, auth)

	// -------- registrations --------
	registrations := api.Group("/registrations")
	registrations.POST("", s.registrationHandler.Register, auth)
	registrations.GET("/me", s.registrationHandler.MyRegistrations, auth)
	registrations.GET("/tournament/:tournamentId", s.registrationHandler.ListByTournament)
	registrations.GET("/tournament/:tournamentId/preview", s.registrationHandler.PlayerPreview)
	registrations.DELETE("/:id", s.registrationHandler.Cancel, auth)

	// -------- events --------
	events := api.Group("/events")
	events.GET("", s.eventHandler.ListApproved)
	events.POST("", s.eventHandler.CreateEvent, auth)
	events.GET("/pending", s.eventHandler.ListPending, auth)
	events.GET("/mine", s.eventHandler.MyEvents, auth)
	events.GET("/stats", s.eventHandler.Stats, auth)
	events.GET("/:id", s.eventHandler.GetEvent)
	events.PATCH("/:id/review", s.eventHandler.ReviewEvent, auth)
	events.PATCH("/:id/winner", s.eventHandler.SetWinner, auth)
	events.POST("/:id/register", s.eventHandler.RegisterPlayer)

	// -------- payments --------
	payments := api.Group("/payments")
	payments.POST("/membership/checkout", s.paymentHandler.MembershipCheckout, auth)
	payments.POST("/tournament/checkout", s.paymentHandler.TournamentCheckout, auth)
	payments.POST("/event/checkout", s.paymentHandler.EventCheckout, auth)
	payments.GET("/membership/status", s.paymentHandler.MembershipStatus, auth)
	payments.GET("/history", s.paymentHandler.PaymentHistory, auth)
	payments.POST("/webhook", s.paymentHandler.StripeWebhook)

	// -------- dashboard --------
	dashboard := api.Group("/dashboard")
	dashboard.GET("/stats", s.dashboardHandler.Stats)
	dashboard.GET("/cities", s.dashboardHandler.Cities)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
