package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/quantonganh/leadmagnet"
)

func main() {
	config, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn: config.Sentry.DSN,
	}); err != nil {
		log.Fatalf("sentry.Init: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	a, err := newApp(config)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	if err := a.Run(ctx); err != nil {
		_ = a.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// envFiles are loaded before the config so they can feed viper's env lookups.
var envFiles = []string{".env.local", ".env"}

// legacyEnv maps config keys to the environment names used by existing deployments.
// The first name that is set wins.
var legacyEnv = map[string][]string{
	"db.url":                      {"DATABASE_URL"},
	"mail.resend.api_key":         {"RESEND_API_KEY"},
	"mail.postmark.server_token":  {"POSTMARK_SERVER_TOKEN"},
	"mail.postmark.account_token": {"POSTMARK_ACCOUNT_TOKEN"},
	"mail.mailjet.public_key":     {"MAILJET_PUBLIC_KEY"},
	"mail.mailjet.private_key":    {"MAILJET_PRIVATE_KEY"},
	"owner.email":                 {"OWNER_EMAIL"},
	"ebook.url":                   {"EBOOK_URL", "NEXT_PUBLIC_EBOOK_URL"},
	"sentry.dsn":                  {"SENTRY_DSN"},
	"http.addr":                   {"HTTP_ADDR"},
}

func loadConfig() (*leadmagnet.Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	for key, names := range legacyEnv {
		for _, name := range names {
			if _, ok := os.LookupEnv(name); !ok {
				continue
			}
			if err := viper.BindEnv(key, name); err != nil {
				return nil, err
			}
			break
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config *leadmagnet.Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults() {
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.domain", "")
	viper.SetDefault("http.allowed_origin", "*")

	viper.SetDefault("db.type", "postgres")
	viper.SetDefault("db.url", "")
	viper.SetDefault("db.path", "leadmagnet.db")
	viper.SetDefault("db.email_constraint", "subscribers_email_key")
	viper.SetDefault("db.timeout", leadmagnet.DefaultTimeout)

	viper.SetDefault("mail.provider", "resend")
	viper.SetDefault("mail.from", "onboarding@resend.dev")
	viper.SetDefault("mail.timeout", leadmagnet.DefaultTimeout)
	viper.SetDefault("mail.resend.api_key", "")
	viper.SetDefault("mail.postmark.server_token", "")
	viper.SetDefault("mail.postmark.account_token", "")
	viper.SetDefault("mail.mailjet.public_key", "")
	viper.SetDefault("mail.mailjet.private_key", "")

	viper.SetDefault("smtp.host", "")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.username", "")
	viper.SetDefault("smtp.password", "")

	viper.SetDefault("owner.email", "")
	viper.SetDefault("ebook.url", leadmagnet.DefaultResourceURL)
	viper.SetDefault("product.name", "Free E-Book")
	viper.SetDefault("product.link", "")

	viper.SetDefault("health.spec", "@every 1m")
	viper.SetDefault("log.hmac_secret", "")
	viper.SetDefault("sentry.dsn", "")
}
