package httpapi

import (
	"net/http"
	"strings"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"go.uber.org/zap"
)

// Router is a net/http ServeMux with method patterns and a global middleware
// stack.
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
	errs    *ErrorWriter
	logger  *zap.Logger
}

func NewRouter(errs *ErrorWriter, logger *zap.Logger) *Router {
	r := &Router{mux: http.NewServeMux(), errs: errs, logger: logger}
	r.handler = chain(r.mux, RequestID(), AccessLog(logger), Recover(errs))
	r.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// Handle registers h under pattern ("METHOD /path/{id}") behind mws.
func (r *Router) Handle(pattern string, h http.HandlerFunc, mws ...Middleware) {
	r.mux.Handle(pattern, chain(h, mws...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// ParentAPI groups the bearer-token handlers under /api/v1.
type ParentAPI struct {
	Auth          *AuthHandler
	Children      *ChildHandler
	Foods         *FoodHandler
	Screenings    *ScreeningHandler
	Pmt           *PmtHandler
	Notifications *NotificationHandler
}

// RegisterParentRoutes mounts the parent API. Everything but register and
// login sits behind TokenAuth + EnsureParent.
func (r *Router) RegisterParentRoutes(api *ParentAPI, auth service.AuthService) {
	const p = "/api/v1"
	guard := []Middleware{TokenAuth(auth, r.errs), EnsureParent(r.logger)}
	h := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		r.Handle(method+" "+p+path, fn, guard...)
	}

	r.Handle("POST "+p+"/auth/register", api.Auth.Register)
	r.Handle("POST "+p+"/auth/login", api.Auth.Login)
	h("POST /auth/logout", api.Auth.Logout)
	h("POST /auth/refresh", api.Auth.Refresh)
	h("GET /auth/me", api.Auth.Me)
	h("PUT /auth/profile", api.Auth.UpdateProfile)

	h("GET /children", api.Children.List)
	h("POST /children", api.Children.Create)
	h("GET /children/{id}", api.Children.Get)
	h("PUT /children/{id}", api.Children.Update)
	h("DELETE /children/{id}", api.Children.Delete)
	h("GET /children/{id}/summary", api.Children.Summary)

	h("GET /children/{id}/anthropometry", api.Children.ListMeasurements)
	h("POST /children/{id}/anthropometry", api.Children.CreateMeasurement)
	h("GET /children/{id}/anthropometry/{mid}", api.Children.GetMeasurement)
	h("PUT /children/{id}/anthropometry/{mid}", api.Children.UpdateMeasurement)
	h("DELETE /children/{id}/anthropometry/{mid}", api.Children.DeleteMeasurement)
	h("GET /children/{id}/growth-chart", api.Children.GrowthChart)

	h("GET /children/{id}/food-logs", api.Children.ListFoodLogs)
	h("POST /children/{id}/food-logs", api.Children.CreateFoodLog)
	h("GET /children/{id}/food-logs/{lid}", api.Children.GetFoodLog)
	h("PUT /children/{id}/food-logs/{lid}", api.Children.UpdateFoodLog)
	h("DELETE /children/{id}/food-logs/{lid}", api.Children.DeleteFoodLog)
	h("GET /children/{id}/nutrition-summary", api.Children.NutritionSummary)
	h("GET /children/{id}/nutrition-trends", api.Children.NutritionTrends)
	h("GET /children/{id}/dashboard", api.Children.Dashboard)

	h("GET /foods", api.Foods.List)
	h("POST /foods", api.Foods.Create)
	h("GET /foods/{id}", api.Foods.Get)
	h("PUT /foods/{id}", api.Foods.Update)
	h("DELETE /foods/{id}", api.Foods.Delete)
	h("GET /foods-categories", api.Foods.Categories)

	h("GET /asq3/domains", api.Screenings.Domains)
	h("GET /asq3/age-intervals", api.Screenings.AgeIntervals)
	h("GET /asq3/age-intervals/{id}/questions", api.Screenings.Questions)
	h("GET /asq3/recommendations", api.Screenings.Recommendations)
	h("GET /children/{id}/screenings", api.Screenings.List)
	h("POST /children/{id}/screenings", api.Screenings.Start)
	h("GET /children/{id}/screenings/{sid}", api.Screenings.Get)
	h("PUT /children/{id}/screenings/{sid}", api.Screenings.Update)
	h("GET /children/{id}/screenings/{sid}/progress", api.Screenings.Progress)
	h("POST /children/{id}/screenings/{sid}/answers", api.Screenings.SubmitAnswers)
	h("GET /children/{id}/screenings/{sid}/results", api.Screenings.Results)

	h("GET /pmt/menus", api.Pmt.Menus)
	h("GET /children/{id}/pmt-schedules", api.Pmt.ListSchedules)
	h("POST /children/{id}/pmt-schedules", api.Pmt.CreateSchedule)
	h("GET /children/{id}/pmt-progress", api.Pmt.Progress)
	h("POST /pmt-schedules/{id}/log", api.Pmt.CreateLog)
	h("PUT /pmt-schedules/{id}/log", api.Pmt.UpdateLog)

	h("GET /notifications", api.Notifications.List)
	h("GET /notifications/unread-count", api.Notifications.UnreadCount)
	h("PUT /notifications/{id}/read", api.Notifications.MarkRead)
	h("POST /notifications/read-all", api.Notifications.MarkAllRead)
	h("DELETE /notifications/{id}", api.Notifications.Delete)
}

// WebAPI groups the session-cookie handlers under /web.
type WebAPI struct {
	Auth       *WebAuthHandler
	Dashboard  *DashboardHandler
	Parents    *ParentHandler
	Children   *WebChildHandler
	Foods      *FoodHandler
	Programs   *ProgramHandler
	Schedules  *ScheduleHandler
	Reports    *ReportHandler
	Screenings *WebScreeningHandler
}

// RegisterWebRoutes mounts the nakes web surface. Everything but login sits
// behind SessionAuth + EnsureNakes.
func (r *Router) RegisterWebRoutes(web *WebAPI, auth service.AuthService, cookie CookieConfig) {
	const p = "/web"
	guard := []Middleware{SessionAuth(auth, cookie, r.errs), EnsureNakes(auth, cookie, r.logger)}
	h := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		r.Handle(method+" "+p+path, fn, guard...)
	}

	r.Handle("POST "+p+"/login", web.Auth.Login)
	h("POST /logout", web.Auth.Logout)
	h("GET /profile", web.Auth.Profile)
	h("PUT /profile", web.Auth.UpdateProfile)

	h("GET /dashboard", web.Dashboard.Show)

	h("GET /parents", web.Parents.List)
	h("POST /parents", web.Parents.Create)
	h("GET /parents/{id}", web.Parents.Get)
	h("PUT /parents/{id}", web.Parents.Update)
	h("DELETE /parents/{id}", web.Parents.Delete)

	h("GET /children", web.Children.List)
	h("POST /children", web.Children.Create)
	h("GET /children/{id}", web.Children.Get)
	h("PUT /children/{id}", web.Children.Update)
	h("DELETE /children/{id}", web.Children.Delete)

	h("GET /foods", web.Foods.List)
	h("POST /foods", web.Foods.Create)
	h("GET /foods/{id}", web.Foods.Get)
	h("PUT /foods/{id}", web.Foods.Update)
	h("DELETE /foods/{id}", web.Foods.Delete)

	h("GET /pmt-programs", web.Programs.List)
	h("POST /pmt-programs", web.Programs.Create)
	h("GET /pmt-programs/{id}", web.Programs.Get)
	h("POST /pmt-programs/{id}/discontinue", web.Programs.Discontinue)

	h("GET /pmt-schedules", web.Schedules.List)
	h("POST /pmt-schedules", web.Schedules.Create)
	h("PUT /pmt-schedules/{id}", web.Schedules.Update)
	h("DELETE /pmt-schedules/{id}", web.Schedules.Delete)
	h("POST /pmt-schedules/{id}/distribution", web.Schedules.Distribution)

	h("GET /pmt-reports", web.Reports.Index)
	h("GET /pmt-reports/export", web.Reports.Export)

	h("GET /screenings", web.Screenings.List)
	h("POST /screenings", web.Screenings.Create)
	h("GET /screenings/{id}", web.Screenings.Get)
	h("DELETE /screenings/{id}", web.Screenings.Delete)
	h("GET /screenings/{id}/results", web.Screenings.Results)
	h("GET /screenings/{id}/interventions", web.Screenings.ListInterventions)
	h("POST /screenings/{id}/interventions", web.Screenings.CreateIntervention)
	h("PUT /screenings/{id}/interventions/{iid}", web.Screenings.UpdateIntervention)
	h("DELETE /screenings/{id}/interventions/{iid}", web.Screenings.DeleteIntervention)
	h("POST /screenings/{id}/interventions/{iid}/complete", web.Screenings.CompleteIntervention)
}
