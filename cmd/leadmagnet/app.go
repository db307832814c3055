package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/quantonganh/leadmagnet"
	"github.com/quantonganh/leadmagnet/bolt"
	"github.com/quantonganh/leadmagnet/health"
	"github.com/quantonganh/leadmagnet/http"
	"github.com/quantonganh/leadmagnet/mailjet"
	"github.com/quantonganh/leadmagnet/notify"
	"github.com/quantonganh/leadmagnet/postgres"
	"github.com/quantonganh/leadmagnet/postmark"
	"github.com/quantonganh/leadmagnet/resend"
	"github.com/quantonganh/leadmagnet/smtp"
	"github.com/quantonganh/leadmagnet/sqlite"
	"github.com/quantonganh/leadmagnet/subscribe"
)

type app struct {
	config     *leadmagnet.Config
	logger     zerolog.Logger
	db         leadmagnet.Database
	health     *health.Checker
	httpServer *http.Server
}

func newApp(config *leadmagnet.Config) (*app, error) {
	httpServer, err := http.NewServer()
	if err != nil {
		return nil, err
	}

	return &app{
		config:     config,
		logger:     zerolog.New(os.Stdout).With().Timestamp().Logger(),
		httpServer: httpServer,
	}, nil
}

func (a *app) Run(ctx context.Context) error {
	db, subscribers, err := newStore(a.config)
	if err != nil {
		return err
	}
	a.db = db

	// The service keeps running without a store: submissions still deliver the e-book
	// and the health probe keeps reopening it.
	if err := a.db.Open(); err != nil {
		a.logger.Error().Err(err).Str("type", a.config.DB.Type).Msg("Failed to open subscriber store")
	}

	a.health = health.NewChecker(a.db, a.config.StoreTimeout(), a.logger)
	if err := a.health.Start(ctx, a.config.Health.Spec); err != nil {
		return errors.Wrap(err, "health")
	}

	mailer, err := newMailer(a.config)
	if err != nil {
		if leadmagnet.ErrorCode(err) != leadmagnet.ErrInvalid {
			return err
		}
		a.logger.Warn().Err(err).Str("provider", a.config.Mail.Provider).Msg("Email is disabled")
		mailer = nil
	}

	notifications := notify.NewNotificationService(notify.Config{
		From:        a.config.Mail.From,
		OwnerEmail:  a.config.Owner.Email,
		ProductName: a.config.Product.Name,
		ProductLink: a.config.Product.Link,
	}, mailer)

	a.httpServer.Addr = a.config.HTTP.Addr
	a.httpServer.Domain = a.config.HTTP.Domain
	a.httpServer.AllowedOrigin = a.config.HTTP.AllowedOrigin
	a.httpServer.SubmissionService = subscribe.NewService(subscribers, notifications, a.config)
	a.httpServer.HealthChecker = a.health

	if err := a.httpServer.Open(); err != nil {
		return err
	}
	a.logger.Info().Str("url", a.httpServer.URL()).Msg("Listening")

	return nil
}

func (a *app) Close() error {
	if a.httpServer != nil {
		if err := a.httpServer.Close(); err != nil {
			return err
		}
	}

	if a.health != nil {
		a.health.Stop()
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return err
		}
	}

	return nil
}

func newStore(config *leadmagnet.Config) (leadmagnet.Database, leadmagnet.SubscriberService, error) {
	switch config.DB.Type {
	case "", "postgres":
		db := postgres.NewDB(config.DB.URL)
		return db, postgres.NewSubscriberService(db, config.DB.EmailConstraint), nil
	case "sqlite":
		db := sqlite.NewDB(config.DB.Path)
		return db, sqlite.NewSubscriberService(db), nil
	case "bolt":
		db := bolt.NewDB(config.DB.Path)
		return db, bolt.NewSubscriberService(db), nil
	default:
		return nil, nil, errors.Errorf("unknown db type %q", config.DB.Type)
	}
}

func newMailer(config *leadmagnet.Config) (leadmagnet.Mailer, error) {
	switch config.Mail.Provider {
	case "", "resend":
		return resend.NewMailer(config.Mail.Resend.APIKey, config.Mail.From, nil)
	case "postmark":
		return postmark.NewMailer(config.Mail.Postmark.ServerToken, config.Mail.Postmark.AccountToken, config.Mail.From)
	case "mailjet":
		return mailjet.NewMailer(config.Mail.Mailjet.PublicKey, config.Mail.Mailjet.PrivateKey, config.Mail.From)
	case "smtp":
		return smtp.NewMailer(smtp.Config{
			Host:     config.SMTP.Host,
			Port:     config.SMTP.Port,
			Username: config.SMTP.Username,
			Password: config.SMTP.Password,
			From:     config.Mail.From,
		})
	default:
		return nil, errors.Errorf("unknown mail provider %q", config.Mail.Provider)
	}
}
