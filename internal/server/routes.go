package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentflow/internal/aggregate"
	"contentflow/internal/board"
	"contentflow/internal/db"
	"contentflow/internal/handlers"
	"contentflow/internal/handlers/api"
	"contentflow/internal/middleware"
	"contentflow/internal/realtime"
	"contentflow/internal/workflow"
)

// Deps carries the wired application components into route registration.
type Deps struct {
	DB         *db.DB
	Bus        realtime.Bus
	Hub        *realtime.Hub
	Engine     *workflow.Engine
	Aggregator *aggregate.Aggregator
	Boards     *board.Registry
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(s.Store, deps.DB)

	// Initialize handlers
	pagesHandler := handlers.NewPagesHandler(s.Cfg)
	probeHandler := handlers.NewProbeHandler(deps.DB)
	contentHandler := api.NewContentHandler(deps.DB)
	workflowHandler := api.NewWorkflowHandler(deps.Engine)
	requestHandler := api.NewRequestHandler(deps.DB)
	workItemsHandler := api.NewWorkItemsHandler(deps.Aggregator)
	columnHandler := api.NewColumnHandler(deps.DB, deps.Bus)
	boardHandler := api.NewBoardHandler(deps.Boards)
	streamHandler := api.NewStreamHandler(deps.Hub)
	calendarHandler := api.NewCalendarHandler(deps.DB, deps.Aggregator, s.Cfg.WeekStart)
	clientHandler := api.NewClientHandler(deps.DB)

	// Auth routes - OIDC is always required for frontend access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All users must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, deps.DB)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Probes and metrics - unauthenticated
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Frontend routes
	s.App.Get("/", authMiddleware.RequireAuth, pagesHandler.Home)
	s.App.Get("/board", authMiddleware.RequireAuth, pagesHandler.Board)
	s.App.Get("/calendar", authMiddleware.RequireAuth, pagesHandler.Calendar)
	s.App.Get("/login", authMiddleware.OptionalAuth, pagesHandler.LoginPage)

	// Content pieces
	s.App.Get("/api/v1/content", authMiddleware.RequireAuth, contentHandler.List)
	s.App.Post("/api/v1/content", authMiddleware.RequireAuth, middleware.RequireAgencySide, contentHandler.Create)
	s.App.Get("/api/v1/content/:id", authMiddleware.RequireAuth, contentHandler.Get)
	s.App.Put("/api/v1/content/:id", authMiddleware.RequireAuth, middleware.RequireAgencySide, contentHandler.Update)
	s.App.Delete("/api/v1/content/:id", authMiddleware.RequireAuth, middleware.RequireAgencySide, contentHandler.Delete)
	s.App.Post("/api/v1/content/:id/media", authMiddleware.RequireAuth, middleware.RequireAgencySide, contentHandler.AddMedia)
	s.App.Get("/api/v1/content/:id/adjustments", authMiddleware.RequireAuth, requestHandler.ListAdjustments)

	// Workflow transitions
	s.App.Post("/api/v1/content/:id/submit", authMiddleware.RequireAuth, middleware.RequireAgencySide, workflowHandler.Submit)
	s.App.Post("/api/v1/content/:id/approve", authMiddleware.RequireAuth, workflowHandler.Approve)
	s.App.Post("/api/v1/content/:id/request-changes", authMiddleware.RequireAuth, workflowHandler.RequestChanges)
	s.App.Post("/api/v1/content/:id/adjustment-done", authMiddleware.RequireAuth, middleware.RequireAgencySide, workflowHandler.MarkAdjustmentDone)
	s.App.Post("/api/v1/content/:id/schedule", authMiddleware.RequireAuth, middleware.RequireAgencySide, workflowHandler.Schedule)
	s.App.Post("/api/v1/content/:id/cancel-schedule", authMiddleware.RequireAuth, middleware.RequireAgencySide, workflowHandler.CancelSchedule)
	s.App.Post("/api/v1/content/:id/publish", authMiddleware.RequireAuth, middleware.RequireAgencySide, workflowHandler.Publish)
	s.App.Post("/api/v1/content/:id/override", authMiddleware.RequireAuth, workflowHandler.Override)
	s.App.Post("/api/v1/content/:id/reschedule", authMiddleware.RequireAuth, middleware.RequireAgencySide, workflowHandler.Reschedule)

	// Creative requests
	s.App.Get("/api/v1/requests", authMiddleware.RequireAuth, requestHandler.ListCreative)
	s.App.Post("/api/v1/requests", authMiddleware.RequireAuth, requestHandler.CreateCreative)
	s.App.Put("/api/v1/requests/:id/status", authMiddleware.RequireAuth, middleware.RequireAgencySide, requestHandler.UpdateCreativeStatus)
	s.App.Post("/api/v1/requests/:id/fulfill", authMiddleware.RequireAuth, middleware.RequireAgencySide, requestHandler.FulfillCreative)

	// Aggregated work items
	s.App.Get("/api/v1/work-items", authMiddleware.RequireAuth, workItemsHandler.List)
	s.App.Get("/api/v1/work-items/requests", authMiddleware.RequireAuth, workItemsHandler.Requests)

	// Kanban columns
	s.App.Get("/api/v1/columns", authMiddleware.RequireAuth, columnHandler.List)
	s.App.Put("/api/v1/columns", authMiddleware.RequireAuth, middleware.RequireAgencySide, columnHandler.Upsert)
	s.App.Delete("/api/v1/columns/:id", authMiddleware.RequireAuth, middleware.RequireAgencySide, columnHandler.Delete)

	// Board snapshot and drag
	s.App.Get("/api/v1/board", authMiddleware.RequireAuth, boardHandler.Snapshot)
	s.App.Post("/api/v1/board/drag", authMiddleware.RequireAuth, boardHandler.DragEnd)

	// Change event stream
	s.App.Get("/api/v1/stream", authMiddleware.RequireAuth, streamHandler.Stream)

	// Calendar views
	s.App.Get("/api/v1/calendar/month", authMiddleware.RequireAuth, calendarHandler.Month)
	s.App.Get("/api/v1/calendar/week", authMiddleware.RequireAuth, calendarHandler.Week)
	s.App.Get("/api/v1/calendar/day", authMiddleware.RequireAuth, calendarHandler.Day)

	// Clients
	s.App.Get("/api/v1/clients", authMiddleware.RequireAuth, clientHandler.List)
	s.App.Post("/api/v1/clients", authMiddleware.RequireAuth, middleware.RequireAgencySide, clientHandler.Create)
	s.App.Put("/api/v1/clients/:id/approver", authMiddleware.RequireAuth, clientHandler.SetApprover)

	return nil
}
