package input

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"webchat/internal"
	"webchat/internal/chat"
	"webchat/internal/handler"
	"webchat/internal/middleware"
	"webchat/internal/nlog"
	"webchat/internal/repository"
	"webchat/internal/service"
	"webchat/internal/view"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type IptConfig struct {
	ServerPort        uint16
	ReadTimeout       int64
	WriteTimeout      int64
	TemplateDirectory string
	SecretKey         string
	LivenessWindow    time.Duration
}

type InputManager struct { // Manages the HTTP and websocket surface
	running atomic.Bool

	logger nlog.Logger
	server *http.Server

	stopFromOutsideChan chan struct{}
	doneFromInsideChan  chan struct{}

	authService    service.AuthService
	friendService  service.FriendService
	groupService   service.GroupService
	userService    service.UserService
	messageService service.MessageService
	verifier       *service.GoogleVerifier

	chatRouter *chat.Router
	lifecycle  *chat.LifecycleManager
	presence   repository.PresenceRepository
}

func NewInputManager() *InputManager {
	return &InputManager{
		running:             atomic.Bool{},
		stopFromOutsideChan: make(chan struct{}),
		doneFromInsideChan:  make(chan struct{}),
	}
}

func (i *InputManager) IsReady() bool {
	return i.logger != nil && i.authService != nil && i.friendService != nil &&
		i.groupService != nil && i.userService != nil && i.messageService != nil &&
		i.verifier != nil && i.chatRouter != nil && i.lifecycle != nil && i.presence != nil
}

func (i *InputManager) IsRunning() bool {
	return i.running.Load()
}

func (i *InputManager) SetLogger(l nlog.Logger) {
	i.logger = l
}

func (i *InputManager) SetAuthService(as service.AuthService) {
	i.authService = as
}

func (i *InputManager) SetFriendService(fs service.FriendService) {
	i.friendService = fs
}

func (i *InputManager) SetGroupService(gs service.GroupService) {
	i.groupService = gs
}

func (i *InputManager) SetUserService(us service.UserService) {
	i.userService = us
}

func (i *InputManager) SetMessageService(ms service.MessageService) {
	i.messageService = ms
}

func (i *InputManager) SetGoogleVerifier(v *service.GoogleVerifier) {
	i.verifier = v
}

func (i *InputManager) SetChatRouter(r *chat.Router) {
	i.chatRouter = r
}

func (i *InputManager) SetLifecycleManager(lm *chat.LifecycleManager) {
	i.lifecycle = lm
}

func (i *InputManager) SetPresenceRepository(pr repository.PresenceRepository) {
	i.presence = pr
}

func (i *InputManager) Logf(format string, a ...any) {
	i.logger.Logf(format, a...)
}

func (i *InputManager) Stop() {
	close(i.stopFromOutsideChan)
	<-i.doneFromInsideChan
}

func (i *InputManager) Run(ctx context.Context, cfg *IptConfig) error {
	i.Logf("Input service started...")

	if !i.IsReady() {
		return fmt.Errorf("The Input manager is not ready... Missing components")
	}

	exePath, err := os.Executable()
	if err != nil {
		return err
	}
	exeDir := filepath.Dir(exePath)

	cookieStore := sessions.NewCookieStore([]byte(cfg.SecretKey))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	// Load templates and page renderer
	templates, err := internal.RetrieveWebTemplates(filepath.Join(exeDir, cfg.TemplateDirectory))
	if err != nil {
		return err
	}
	renderer := view.NewPageRenderer(templates)

	// Handlers
	pageHandler := handler.NewPageHandler(cookieStore, renderer)
	authHandler := handler.NewAuthHandler(i.authService, i.verifier, cookieStore)
	friendHandler := handler.NewFriendHandler(i.friendService)
	groupHandler := handler.NewGroupHandler(i.groupService)
	userHandler := handler.NewUserHandler(i.userService)
	messageHandler := handler.NewMessageHandler(i.messageService, i.presence, cfg.LivenessWindow)
	wsHandler := handler.NewWSHandler(i.chatRouter, i.lifecycle, i.logger)

	// Router
	r := mux.NewRouter()

	r.HandleFunc("/", pageHandler.Index).Methods("GET")

	// Authentication routes
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")
	r.HandleFunc("/auth/google", authHandler.GoogleLogin).Methods("GET")
	r.HandleFunc("/auth/google/callback", authHandler.GoogleCallback).Methods("GET")
	r.HandleFunc("/auth/status", authHandler.Status).Methods("GET")

	// Websocket endpoint. Identity arrives in the first frame, not the
	// upgrade request, so it stays outside the auth middleware.
	r.HandleFunc("/ws", wsHandler.ServeWS)

	guard := func(h func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
		return middleware.AuthMiddleware(cookieStore, h)
	}

	r.HandleFunc("/api/users/me", guard(userHandler.Me)).Methods("GET")
	r.HandleFunc("/api/users/me", guard(userHandler.UpdateProfile)).Methods("PUT")
	r.HandleFunc("/api/users/search", guard(userHandler.Search)).Methods("GET")

	r.HandleFunc("/api/friends", guard(friendHandler.List)).Methods("GET")
	r.HandleFunc("/api/friends", guard(friendHandler.Request)).Methods("POST")
	r.HandleFunc("/api/friends/pending", guard(friendHandler.Pending)).Methods("GET")
	r.HandleFunc("/api/friends/sent", guard(friendHandler.Sent)).Methods("GET")
	r.HandleFunc("/api/friends/online", guard(messageHandler.OnlineFriends)).Methods("GET")
	r.HandleFunc("/api/friends/{id}/accept", guard(friendHandler.Accept)).Methods("POST")
	r.HandleFunc("/api/friends/{id}/reject", guard(friendHandler.Reject)).Methods("POST")
	r.HandleFunc("/api/friends/{id}", guard(friendHandler.Remove)).Methods("DELETE")

	r.HandleFunc("/api/groups", guard(groupHandler.List)).Methods("GET")
	r.HandleFunc("/api/groups", guard(groupHandler.Create)).Methods("POST")
	r.HandleFunc("/api/groups/{id}", guard(groupHandler.Get)).Methods("GET")
	r.HandleFunc("/api/groups/{id}", guard(groupHandler.Delete)).Methods("DELETE")
	r.HandleFunc("/api/groups/{id}/members", guard(groupHandler.Members)).Methods("GET")
	r.HandleFunc("/api/groups/{id}/members", guard(groupHandler.AddMember)).Methods("POST")
	r.HandleFunc("/api/groups/{id}/leave", guard(groupHandler.Leave)).Methods("POST")

	r.HandleFunc("/api/messages/direct/{id}", guard(messageHandler.DirectHistory)).Methods("GET")
	r.HandleFunc("/api/messages/group/{id}", guard(messageHandler.GroupHistory)).Methods("GET")
	r.HandleFunc("/api/messages/unread", guard(messageHandler.UnreadCounts)).Methods("GET")

	i.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:        r,
		ReadTimeout:    time.Duration(cfg.ReadTimeout * int64(time.Second)),
		WriteTimeout:   time.Duration(cfg.WriteTimeout * int64(time.Second)),
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		select {
		case <-ctx.Done():
			i.Logf("Received stop signal. Shutting down...")
		case <-i.stopFromOutsideChan:
			i.Logf("Server was asked to stop. Shutting down...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := i.server.Shutdown(shutdownCtx); err != nil {
			i.Logf("Error during shutdown... %v\n", err)
		}
		close(i.doneFromInsideChan)
	}()

	i.Logf("Http server starting on port {%d}", cfg.ServerPort)
	i.running.Store(true)

	if err := i.server.ListenAndServe(); err != http.ErrServerClosed {
		i.Logf("FATAL: HTTP Server error{%v}\n", err)
		i.running.Store(false)
		return err
	}

	i.running.Store(false)
	return nil
}
