package main

import (
	"net/http"
	"os"

	"github.com/Gilson1506/CCALLASPROJET/internal/config"
	"github.com/Gilson1506/CCALLASPROJET/internal/handler"
	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
	"github.com/Gilson1506/CCALLASPROJET/internal/storage"
	"github.com/Gilson1506/CCALLASPROJET/pkg/auth"
)

// services is everything the routes need.
type services struct {
	auth         service.AuthService
	events       service.EventService
	news         service.NewsService
	calendar     service.CalendarService
	partners     service.PartnerService
	fairs        service.FairService
	search       service.SearchService
	stats        service.StatsService
	contacts     service.ContactService
	newsletter   service.NewsletterService
	registration service.RegistrationService
	siteConfig   service.SiteConfigService
	chat         service.ChatService
	newWizard    handler.WizardFactory
	feed         *service.NotificationFeed
	broker       *realtime.Broker
	storage      *storage.LocalStorage
}

func registerRoutes(mux *http.ServeMux, h *handler.Handler, s services, cfg *config.Config, limiter *handler.RateLimiter) {
	optionalAuth := auth.OptionalAuth(s.auth)
	adminFlag := auth.AdminMiddleware(s.auth.IsAdmin)

	// 管理画面: セッション必須 + admin_users 登録必須
	wrapAdmin := func(next http.Handler) http.Handler {
		return auth.RequireAuth(s.auth)(adminFlag(auth.RequireAdmin(next)))
	}

	content := handler.NewContentHandler(handler.ContentServices{
		Events:   s.events,
		News:     s.news,
		Calendar: s.calendar,
		Partners: s.partners,
		Fairs:    s.fairs,
		Search:   s.search,
	})
	contact := handler.NewContactHandler(s.contacts, s.newsletter)
	registration := handler.NewRegistrationHandler(s.newWizard)
	siteConfig := handler.NewConfigHandler(s.siteConfig)
	chat := handler.NewChatHandler(s.chat)
	authHandler := handler.NewAuthHandler(s.auth, cfg.SecureCookies)
	inbox := handler.NewInboxHandler(s.contacts, s.newsletter, s.registration, s.stats)
	notifications := handler.NewNotificationHandler(s.feed)
	uploads := handler.NewUploadHandler(s.storage)
	rt := handler.NewRealtimeHandler(s.broker, s.feed, h.OriginAllowed)

	mux.HandleFunc("GET /api/health", h.Health)

	// 公開コンテンツ
	mux.HandleFunc("GET /api/events", content.Events)
	mux.HandleFunc("GET /api/events/{id}", content.Event)
	mux.HandleFunc("GET /api/news", content.News)
	mux.HandleFunc("GET /api/news/{id}", content.Article)
	mux.HandleFunc("GET /api/calendar", content.Calendar)
	mux.HandleFunc("GET /api/partners", content.Partners)
	mux.HandleFunc("GET /api/fairs", content.Fairs)
	mux.HandleFunc("GET /api/search", content.Search)
	mux.HandleFunc("GET /api/config/{key}", siteConfig.Get)

	// 公開書き込みはレート制限付き
	mux.Handle("POST /api/contact", limiter.Limit("contact", contact.Submit))
	mux.Handle("POST /api/newsletter", limiter.Limit("newsletter", contact.Subscribe))
	mux.HandleFunc("GET /api/registration/events", registration.Events)
	mux.Handle("POST /api/registrations", limiter.Limit("registration", registration.Register))
	mux.Handle("POST /api/chat/messages", limiter.Limit("chat", chat.Send))
	mux.HandleFunc("GET /api/chat/sessions/{id}/messages", chat.History)

	// 認証
	mux.Handle("POST /api/auth/login", limiter.Limit("login", authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/me", optionalAuth(adminFlag(http.HandlerFunc(authHandler.Me))))

	// WebSocket: 匿名はチャットのみ、管理者は全テーブルと通知
	mux.Handle("GET /api/realtime", optionalAuth(adminFlag(http.HandlerFunc(rt.Serve))))

	// 管理 API
	handler.NewCollectionHandler[*model.Event]("events", s.events,
		func() *model.Event { return &model.Event{} },
		func(e *model.Event, id string) { e.ID = id }).Register(mux, wrapAdmin)
	handler.NewCollectionHandler[*model.NewsArticle]("news", s.news,
		func() *model.NewsArticle { return &model.NewsArticle{} },
		func(n *model.NewsArticle, id string) { n.ID = id }).Register(mux, wrapAdmin)
	handler.NewCollectionHandler[*model.CalendarEntry]("calendar", s.calendar,
		func() *model.CalendarEntry { return &model.CalendarEntry{} },
		func(c *model.CalendarEntry, id string) { c.ID = id }).Register(mux, wrapAdmin)
	handler.NewCollectionHandler[*model.Partner]("partners", s.partners,
		func() *model.Partner { return &model.Partner{} },
		func(p *model.Partner, id string) { p.ID = id }).Register(mux, wrapAdmin)
	handler.NewCollectionHandler[*model.Fair]("fairs", s.fairs,
		func() *model.Fair { return &model.Fair{} },
		func(f *model.Fair, id string) { f.ID = id }).Register(mux, wrapAdmin)

	mux.Handle("GET /api/admin/messages", wrapAdmin(http.HandlerFunc(inbox.Messages)))
	mux.Handle("PUT /api/admin/messages/{id}", wrapAdmin(http.HandlerFunc(inbox.UpdateMessage)))
	mux.Handle("DELETE /api/admin/messages/{id}", wrapAdmin(http.HandlerFunc(inbox.DeleteMessage)))
	mux.Handle("GET /api/admin/newsletter", wrapAdmin(http.HandlerFunc(inbox.Subscribers)))
	mux.Handle("PUT /api/admin/newsletter/{id}", wrapAdmin(http.HandlerFunc(inbox.UpdateSubscriber)))
	mux.Handle("DELETE /api/admin/newsletter/{id}", wrapAdmin(http.HandlerFunc(inbox.DeleteSubscriber)))
	mux.Handle("GET /api/admin/registrations", wrapAdmin(http.HandlerFunc(inbox.Registrations)))
	mux.Handle("PUT /api/admin/registrations/{id}", wrapAdmin(http.HandlerFunc(inbox.UpdateRegistration)))
	mux.Handle("GET /api/admin/stats", wrapAdmin(http.HandlerFunc(inbox.Stats)))
	mux.Handle("PUT /api/admin/config/{key}", wrapAdmin(http.HandlerFunc(siteConfig.Put)))

	mux.Handle("GET /api/admin/chat/sessions", wrapAdmin(http.HandlerFunc(chat.Sessions)))
	mux.Handle("POST /api/admin/chat/sessions/{id}/open", wrapAdmin(http.HandlerFunc(chat.Open)))
	mux.Handle("POST /api/admin/chat/sessions/{id}/messages", wrapAdmin(http.HandlerFunc(chat.Reply)))
	mux.Handle("POST /api/admin/chat/sessions/{id}/close", wrapAdmin(http.HandlerFunc(chat.Close)))

	mux.Handle("GET /api/admin/notifications", wrapAdmin(http.HandlerFunc(notifications.List)))
	mux.Handle("POST /api/admin/notifications/read", wrapAdmin(http.HandlerFunc(notifications.MarkRead)))

	mux.Handle("POST /api/admin/uploads/{bucket}/{folder}", wrapAdmin(http.HandlerFunc(uploads.Upload)))
	mux.Handle("DELETE /api/admin/uploads/{bucket}", wrapAdmin(http.HandlerFunc(uploads.Delete)))

	// アップロード済みファイルの配信
	if err := os.MkdirAll(s.storage.Dir(), 0o755); err == nil {
		mux.Handle("GET "+storage.URLPrefix+"/", http.StripPrefix(storage.URLPrefix, http.FileServer(http.Dir(s.storage.Dir()))))
	}
}
