package internal

import (
	"net/http"
	"sobriety/internal/controllers"
	"sobriety/internal/providers"
)

func InitRoutes(addictionController *controllers.AddictionController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/addictions", http.HandlerFunc(addictionController.List))
	routers.Post("/addictions", http.HandlerFunc(addictionController.Create))
	routers.Get("/addiction", http.HandlerFunc(addictionController.Get))
	routers.Post("/addiction/delete", http.HandlerFunc(addictionController.Delete))
	routers.Post("/addiction/stop", http.HandlerFunc(addictionController.Stop))
	routers.Post("/addiction/relapse", http.HandlerFunc(addictionController.Relapse))
	routers.Post("/addiction/priority", http.HandlerFunc(addictionController.SetPriority))
	routers.Post("/addiction/time-saving", http.HandlerFunc(addictionController.SetTimeSaving))
	routers.Post("/addiction/notes", http.HandlerFunc(addictionController.PutNote))
	routers.Post("/addiction/notes/delete", http.HandlerFunc(addictionController.DeleteNote))
	routers.Post("/addiction/savings", http.HandlerFunc(addictionController.PutSaving))
	routers.Post("/addiction/savings/delete", http.HandlerFunc(addictionController.DeleteSaving))
	routers.Post("/addiction/milestones", http.HandlerFunc(addictionController.AddMilestone))
	routers.Post("/addiction/milestones/delete", http.HandlerFunc(addictionController.RemoveMilestone))
	routers.Get("/export", http.HandlerFunc(addictionController.Export))
	return routers
}
