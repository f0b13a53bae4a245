package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-user-mediator/config"
	"github.com/oksasatya/go-ddd-user-mediator/internal/application/command"
	"github.com/oksasatya/go-ddd-user-mediator/internal/container"
	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
)

// Seeds an active demo account through the same commands the API uses, so
// the store, cache, events and downstream queue all see it.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	// no activation mail for seeded accounts
	cfg.MailSendEnabled = false
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	cleanup, err := container.Bootstrap(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer cleanup()

	svc := container.GetService()
	email, password, name := "demo@example.com", "password123", "demoUser"

	u, err := svc.Register(ctx, command.CreateUser{Name: name, Email: email, Password: password})
	if errors.Is(err, apperror.ErrDuplicateEmail) {
		fmt.Printf("user %s already seeded\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	token, _, err := container.GetJWT().GenerateToken(u.ID, helpers.PurposeActivation)
	if err != nil {
		log.Fatalf("activation token: %v", err)
	}
	if _, err := svc.Activate(ctx, command.ActivateUserAccount{Token: token}); err != nil {
		log.Fatalf("activate: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, name, password)
}
