package leadmagnet

import "time"

// DefaultResourceURL is the public e-book used when ebook.url is not configured
const DefaultResourceURL = "https://datyiclsvdactlwepuyc.supabase.co/storage/v1/object/public/ebook//My%20Ebook.pdf"

// DefaultTimeout bounds each call to an external collaborator
const DefaultTimeout = 10 * time.Second

// Config represents the main config
type Config struct {
	DB struct {
		Type            string // "postgres", "sqlite" or "bolt"
		URL             string
		Path            string
		EmailConstraint string `mapstructure:"email_constraint"`
		Timeout         time.Duration
	}

	HTTP struct {
		Addr          string
		Domain        string
		AllowedOrigin string `mapstructure:"allowed_origin"`
	}

	Mail struct {
		Provider string // "resend", "postmark", "mailjet" or "smtp"
		From     string
		Timeout  time.Duration

		Resend struct {
			APIKey string `mapstructure:"api_key"`
		}

		Postmark struct {
			ServerToken  string `mapstructure:"server_token"`
			AccountToken string `mapstructure:"account_token"`
		}

		Mailjet struct {
			PublicKey  string `mapstructure:"public_key"`
			PrivateKey string `mapstructure:"private_key"`
		}
	}

	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
	}

	Owner struct {
		Email string
	}

	Ebook struct {
		URL string
	}

	Product struct {
		Name string
		Link string
	}

	Health struct {
		Spec string
	}

	Log struct {
		HMACSecret string `mapstructure:"hmac_secret"`
	}

	Sentry struct {
		DSN string
	}
}

// ResourceURL returns the download link handed to every subscriber
func (c *Config) ResourceURL() string {
	if c == nil || c.Ebook.URL == "" {
		return DefaultResourceURL
	}
	return c.Ebook.URL
}

// StoreTimeout returns the bound for a single store call
func (c *Config) StoreTimeout() time.Duration {
	if c == nil || c.DB.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.DB.Timeout
}

// MailTimeout returns the bound for a single provider call
func (c *Config) MailTimeout() time.Duration {
	if c == nil || c.Mail.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Mail.Timeout
}
