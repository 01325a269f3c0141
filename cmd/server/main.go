package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"webchat/internal"
	"webchat/internal/chat"
	"webchat/internal/data"
	"webchat/internal/entity"
	"webchat/internal/input"
	"webchat/internal/nlog"
	"webchat/internal/service"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Could not resolve executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	cfg, err := internal.LoadConfig(exeDir)
	if err != nil {
		fmt.Printf("Could not load configuration: %v\n", err)
		os.Exit(1)
	}

	sink, err := nlog.NewSink(filepath.Join(exeDir, cfg.LogDirectory), cfg.EnableLogging)
	if err != nil {
		fmt.Printf("Could not open log sink: %v\n", err)
		os.Exit(1)
	}
	defer sink.CloseAll()
	mainLog := sink.Subsystem("main")

	db, err := gorm.Open(sqlite.Open(filepath.Join(exeDir, cfg.DBName)), &gorm.Config{})
	if err != nil {
		mainLog.Logf("FATAL: could not open database{%v}", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Friendship{},
		&entity.Group{},
		&entity.GroupMember{},
		&entity.Message{},
		&entity.PresenceRecord{},
	); err != nil {
		mainLog.Logf("FATAL: migration failed{%v}", err)
		os.Exit(1)
	}

	storage := data.NewStorageManager(db)

	// Nobody is connected before the server listens. Rows left over from a
	// previous run are stale and would read as online until the window lapses.
	if err := storage.GetPresenceRepository().DeleteAll(); err != nil {
		mainLog.Logf("FATAL: presence reconciliation failed{%v}", err)
		os.Exit(1)
	}

	window := time.Duration(cfg.LivenessWindow) * time.Second

	registry := chat.NewRegistry()
	resolver := chat.NewStoreResolver(storage.GetFriendRepository(), storage.GetGroupRepository())
	lifecycle := chat.NewLifecycleManager(registry, resolver, storage.GetUserRepository(), storage.GetPresenceRepository(), sink.Subsystem("lifecycle"))
	chatRouter := chat.NewRouter(registry, resolver, lifecycle, storage.GetMessageRepository(), storage.GetPresenceRepository(), window, sink.Subsystem("router"))

	verifier, err := service.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, sink.Subsystem("google"))
	if err != nil {
		mainLog.Logf("FATAL: could not reach Google key set{%v}", err)
		os.Exit(1)
	}

	manager := input.NewInputManager()
	manager.SetLogger(sink.Subsystem("input"))
	manager.SetAuthService(service.NewLocalAuthService(storage.GetUserRepository(), sink.Subsystem("auth")))
	manager.SetFriendService(service.NewLocalFriendService(storage.GetFriendRepository(), storage.GetUserRepository(), sink.Subsystem("friends")))
	manager.SetGroupService(service.NewLocalGroupService(storage.GetGroupRepository(), storage.GetUserRepository(), resolver, sink.Subsystem("groups")))
	manager.SetUserService(service.NewLocalUserService(storage.GetUserRepository(), sink.Subsystem("users")))
	manager.SetMessageService(service.NewLocalMessageService(storage.GetMessageRepository(), resolver, sink.Subsystem("messages")))
	manager.SetGoogleVerifier(verifier)
	manager.SetChatRouter(chatRouter)
	manager.SetLifecycleManager(lifecycle)
	manager.SetPresenceRepository(storage.GetPresenceRepository())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manager.Run(ctx, &input.IptConfig{
		ServerPort:        cfg.HTTPServerPort,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		TemplateDirectory: cfg.TemplateDirectory,
		SecretKey:         cfg.SecretKey,
		LivenessWindow:    window,
	}); err != nil {
		mainLog.Logf("FATAL: server stopped with error{%v}", err)
		os.Exit(1)
	}

	fmt.Printf("Shutting off...\n")
}
