package api

import (
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Airports  *AirportHandler
	Airplanes *AirplaneHandler
	Crews     *CrewHandler
	Routes    *RouteHandler
	Flights   *FlightHandler
	Orders    *OrderHandler
	Users     *UserHandler
}

// Mount registers every resource under router. Callers are authenticated
// once here; each route then checks the access policy for its resource.
func (h Handlers) Mount(router *gin.RouterGroup, tokens TokenVerifier) {
	router.Use(Authenticate(tokens))

	h.Airplanes.RegisterTypes(router.Group("/airplane_types"))
	h.Airplanes.Register(router.Group("/airplanes"))
	h.Airports.Register(router.Group("/airports"))
	h.Crews.Register(router.Group("/crews"))
	h.Routes.Register(router.Group("/routes"))
	h.Flights.Register(router.Group("/flights"))
	h.Orders.Register(router.Group("/orders"))
	h.Users.Register(router.Group("/users"))
}
