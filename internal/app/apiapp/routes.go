package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/olegbarkov/amora/internal/config"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	eventssvc "github.com/olegbarkov/amora/internal/services/events"
	feedsvc "github.com/olegbarkov/amora/internal/services/feed"
	intersvc "github.com/olegbarkov/amora/internal/services/interactions"
	matchessvc "github.com/olegbarkov/amora/internal/services/matches"
	mediasvc "github.com/olegbarkov/amora/internal/services/media"
	messagessvc "github.com/olegbarkov/amora/internal/services/messages"
	notifsvc "github.com/olegbarkov/amora/internal/services/notifications"
	profilesvc "github.com/olegbarkov/amora/internal/services/profiles"
	userssvc "github.com/olegbarkov/amora/internal/services/users"
	"github.com/olegbarkov/amora/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService         *authsvc.Service
	ProfileService      *profilesvc.Service
	FeedService         *feedsvc.Service
	InteractionService  *intersvc.Service
	MatchService        *matchessvc.Service
	MessageService      *messagessvc.Service
	NotificationService *notifsvc.Service
	EventService        *eventssvc.Service
	UserService         *userssvc.Service
	MediaService        *mediasvc.Service
	Logger              *zap.Logger
	Config              config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	meHandler := handlers.NewMeHandler(deps.UserService, deps.NotificationService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	interactionsHandler := handlers.NewInteractionsHandler(deps.InteractionService)
	likesHandler := handlers.NewLikesHandler(deps.InteractionService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	messagesHandler := handlers.NewMessagesHandler(deps.MessageService)
	notificationsHandler := handlers.NewNotificationsHandler(deps.NotificationService)
	eventsHandler := handlers.NewEventsHandler(deps.EventService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)
	adminHandler := handlers.NewAdminHandler(deps.UserService)

	authMW := AuthMiddleware(deps.AuthService, deps.Logger)
	adminMW := RequireRole("admin")

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
		r.With(authMW).Post("/logout_all", authHandler.LogoutAll)
	})

	r.Route("/v1", func(r chi.Router) {
		r.With(authMW).Get("/me", meHandler.Handle)

		r.With(authMW).Get("/profile", profileHandler.Get)
		r.With(authMW).Put("/profile", profileHandler.Update)
		r.With(authMW).Get("/privacy", profileHandler.GetPrivacy)
		r.With(authMW).Put("/privacy", profileHandler.UpdatePrivacy)

		r.With(authMW).Get("/feed", feedHandler.Handle)

		r.With(authMW).Post("/interactions", interactionsHandler.Record)
		r.With(authMW).Post("/interactions/unlike", interactionsHandler.Unlike)
		r.With(authMW).Get("/likes", likesHandler.Liked)
		r.With(authMW).Get("/likes/incoming", likesHandler.Incoming)

		r.With(authMW).Get("/matches", matchesHandler.List)
		r.With(authMW).Post("/unmatch", matchesHandler.Unmatch)
		r.With(authMW).Post("/block", matchesHandler.Block)
		r.With(authMW).Post("/unblock", matchesHandler.Unblock)

		r.With(authMW).Get("/matches/{match_id}/messages", messagesHandler.List)
		r.With(authMW).Post("/matches/{match_id}/messages", messagesHandler.Send)
		r.With(authMW).Post("/matches/{match_id}/messages/read", messagesHandler.MarkRead)

		r.With(authMW).Get("/notifications", notificationsHandler.List)
		r.With(authMW).Get("/notifications/unread_count", notificationsHandler.UnreadCount)
		r.With(authMW).Post("/notifications/{notification_id}/read", notificationsHandler.MarkRead)
		r.With(authMW).Post("/notifications/read_all", notificationsHandler.MarkAllRead)
		r.With(authMW).Delete("/notifications/{notification_id}", notificationsHandler.Delete)

		r.With(authMW).Get("/events", eventsHandler.List)
		r.With(authMW).Get("/events/{event_id}", eventsHandler.Get)
		r.With(authMW).Post("/events/{event_id}/join", eventsHandler.Join)
		r.With(authMW).Post("/events/{event_id}/leave", eventsHandler.Leave)
		r.With(authMW, adminMW).Post("/events", eventsHandler.Create)

		r.With(authMW).Post("/media/photo", mediaHandler.PhotoUpload)
		r.With(authMW).Get("/media/photos", mediaHandler.PhotosList)
		r.With(authMW).Delete("/media/photos/{photo_id}", mediaHandler.PhotoDelete)
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(authMW, adminMW)
		r.Get("/users", adminHandler.ListUsers)
		r.Get("/users/{user_id}", adminHandler.GetUser)
		r.Post("/users/{user_id}/ban", adminHandler.BanUser)
		r.Post("/users/{user_id}/unban", adminHandler.UnbanUser)
		r.Post("/users/{user_id}/suspend", adminHandler.SuspendUser)
		r.Post("/users/{user_id}/unsuspend", adminHandler.UnsuspendUser)
		r.Post("/users/{user_id}/warn", adminHandler.WarnUser)
		r.Post("/announce", adminHandler.Announce)
	})
}
