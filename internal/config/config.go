package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const (
	TransportResend   = "resend"
	TransportSMTP     = "smtp"
	TransportTest     = "test"
	TransportSendGrid = "sendgrid"
	TransportSES      = "ses"
)

const (
	DefaultResendAPIURL = "https://api.resend.com/emails"
	DefaultSendGridHost = "https://api.sendgrid.com"
	DefaultHTTPTimeout  = 10 * time.Second
)

type Config struct {
	AWSConfig                       *aws.Config
	AppLogLevel                     slog.Level
	AppListenAddr                   string
	AppTransport                    string
	AppLetterTemplatePath           string
	AppLookupApiUrl                 string
	AppPolicyPath                   string
	AppKmsKeyId                     string
	AppSecretsEncrypted             bool
	AppEmailVerificationEnabled     bool
	AppEmailVerificationProvider    string
	AppTestLogDir                   string
	AppHTTPTimeout                  time.Duration
	DebugMode                       bool
	DebugDataPath                   string
	ResendApiUrl                    string
	ResendApiKey                    string
	SendGridApiHost                 string
	SendGridEmailSendApiKey         string
	SendGridEmailVerificationApiKey string
	SMTPHost                        string
	SMTPPort                        int
	SMTPUsername                    string
	SMTPPassword                    string
	SMTPTLSSkipVerify               bool
	SESHealthCacheTTL               time.Duration
}

// Decrypter turns an encrypted secret back into plaintext.
type Decrypter interface {
	Decrypt(ctx context.Context, keyId, encoded string) (string, error)
}

func New() (*Config, error) {
	cfg := Config{
		DebugMode:                       os.Getenv("APP_DEBUG_MODE") == "true",
		DebugDataPath:                   os.Getenv("APP_DEBUG_DATA_PATH"),
		AppLogLevel:                     slog.LevelInfo,
		AppListenAddr:                   os.Getenv("APP_LISTEN_ADDR"),
		AppTransport:                    strings.TrimSpace(os.Getenv("APP_TRANSPORT")),
		AppLetterTemplatePath:           os.Getenv("APP_LETTER_TEMPLATE_PATH"),
		AppLookupApiUrl:                 strings.TrimRight(os.Getenv("APP_LOOKUP_API_URL"), "/"),
		AppPolicyPath:                   os.Getenv("APP_POLICY_PATH"),
		AppKmsKeyId:                     os.Getenv("APP_KMS_KEY_ID"),
		AppSecretsEncrypted:             os.Getenv("APP_SECRETS_ENCRYPTED") == "true",
		AppEmailVerificationEnabled:     os.Getenv("APP_EMAIL_VERIFICATION_ENABLED") != "false",
		AppEmailVerificationProvider:    os.Getenv("APP_EMAIL_VERIFICATION_PROVIDER"),
		AppTestLogDir:                   os.Getenv("APP_TEST_LOG_DIR"),
		ResendApiUrl:                    os.Getenv("APP_RESEND_API_URL"),
		ResendApiKey:                    os.Getenv("APP_RESEND_API_KEY"),
		SendGridApiHost:                 os.Getenv("APP_SENDGRID_API_HOST"),
		SendGridEmailSendApiKey:         os.Getenv("APP_SENDGRID_EMAIL_SEND_API_KEY"),
		SendGridEmailVerificationApiKey: os.Getenv("APP_SENDGRID_EMAIL_VERIFICATION_API_KEY"),
		SMTPHost:                        os.Getenv("APP_SMTP_HOST"),
		SMTPPort:                        25,
		SMTPUsername:                    os.Getenv("APP_SMTP_USERNAME"),
		SMTPPassword:                    os.Getenv("APP_SMTP_PASSWORD"),
		SMTPTLSSkipVerify:               os.Getenv("APP_SMTP_TLS_SKIP_VERIFY") == "true",
		AppHTTPTimeout:                  DefaultHTTPTimeout,
		SESHealthCacheTTL:               30 * time.Second,
	}

	if levelStr := os.Getenv("APP_LOG_LEVEL"); levelStr != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelStr)); err == nil {
			cfg.AppLogLevel = level
		}
	}

	// unknown modes are kept as-is so sends report them
	if cfg.AppTransport == "" {
		cfg.AppTransport = TransportResend
	}

	if cfg.AppListenAddr == "" {
		cfg.AppListenAddr = ":8080"
	}

	if cfg.AppTestLogDir == "" {
		cfg.AppTestLogDir = "uploads"
	}

	if cfg.AppEmailVerificationProvider == "" {
		cfg.AppEmailVerificationProvider = "offline"
	}

	if cfg.ResendApiUrl == "" {
		cfg.ResendApiUrl = DefaultResendAPIURL
	}

	if cfg.SendGridApiHost == "" {
		cfg.SendGridApiHost = DefaultSendGridHost
	}

	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "localhost"
	}

	if portStr := os.Getenv("APP_SMTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.SMTPPort = port
		} else {
			slog.Warn("invalid APP_SMTP_PORT, using default", "value", portStr, "default", cfg.SMTPPort)
		}
	}

	if timeoutStr := os.Getenv("APP_HTTP_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			cfg.AppHTTPTimeout = timeout
		} else {
			slog.Warn("invalid APP_HTTP_TIMEOUT, using default", "value", timeoutStr, "default", DefaultHTTPTimeout)
		}
	}

	if ttlStr := os.Getenv("APP_SES_HEALTH_CACHE_TTL"); ttlStr != "" {
		if ttl, err := time.ParseDuration(ttlStr); err == nil {
			cfg.SESHealthCacheTTL = ttl
		} else {
			slog.Warn("invalid APP_SES_HEALTH_CACHE_TTL, using default", "value", ttlStr, "default", "30s")
		}
	}

	// deprecated
	if cfg.ResendApiKey == "" && os.Getenv("RESEND_API_KEY") != "" {
		cfg.ResendApiKey = os.Getenv("RESEND_API_KEY")
		slog.Warn("deprecated env var used", "old", "RESEND_API_KEY", "new", "APP_RESEND_API_KEY")
	}

	if cfg.TransportMode() == TransportResend && cfg.ResendApiKey == "" {
		slog.Warn("resend api key not configured, letters will fail to send")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and valid
func (c *Config) Validate() error {
	if c.TransportMode() == TransportSendGrid && c.SendGridEmailSendApiKey == "" {
		return errors.New("APP_SENDGRID_EMAIL_SEND_API_KEY is required when using sendgrid transport")
	}

	if c.TransportMode() == TransportTest && c.AppTestLogDir == "" {
		return errors.New("APP_TEST_LOG_DIR is required when using test transport")
	}

	if c.AppEmailVerificationEnabled {
		switch c.AppEmailVerificationProvider {
		case "offline":
		case "sendgrid":
			if c.SendGridEmailVerificationApiKey == "" {
				return errors.New("APP_SENDGRID_EMAIL_VERIFICATION_API_KEY is required when using sendgrid email verification")
			}
		default:
			return errors.New("invalid email verification provider: " + c.AppEmailVerificationProvider + " (must be 'offline' or 'sendgrid')")
		}
	}

	if c.AppSecretsEncrypted && c.AppKmsKeyId == "" {
		return errors.New("APP_KMS_KEY_ID is required when APP_SECRETS_ENCRYPTED is true")
	}

	return nil
}

// TransportMode is AppTransport normalized for comparison. AppTransport
// itself keeps the value as configured.
func (c *Config) TransportMode() string {
	return strings.ToLower(strings.TrimSpace(c.AppTransport))
}

// HTTPClient returns a client for upstream APIs bounded by AppHTTPTimeout.
func (c *Config) HTTPClient() *http.Client {
	timeout := c.AppHTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NeedsAWS reports whether any configured feature talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.TransportMode() == TransportSES || c.AppSecretsEncrypted
}

// LoadAWS loads the default AWS configuration once.
func (c *Config) LoadAWS(ctx context.Context) error {
	if c.AWSConfig != nil {
		return nil
	}

	awscfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load aws config: %w", err)
	}
	c.AWSConfig = &awscfg

	return nil
}

// ResolveSecrets decrypts the api keys in place when they were supplied
// encrypted.
func (c *Config) ResolveSecrets(ctx context.Context, d Decrypter) error {
	if !c.AppSecretsEncrypted {
		return nil
	}

	secrets := map[string]*string{
		"APP_RESEND_API_KEY":                      &c.ResendApiKey,
		"APP_SENDGRID_EMAIL_SEND_API_KEY":         &c.SendGridEmailSendApiKey,
		"APP_SENDGRID_EMAIL_VERIFICATION_API_KEY": &c.SendGridEmailVerificationApiKey,
		"APP_SMTP_PASSWORD":                       &c.SMTPPassword,
	}

	for name, s := range secrets {
		if *s == "" {
			continue
		}
		plain, err := d.Decrypt(ctx, c.AppKmsKeyId, *s)
		if err != nil {
			return fmt.Errorf("failed to decrypt %s: %w", name, err)
		}
		*s = plain
	}

	return nil
}
