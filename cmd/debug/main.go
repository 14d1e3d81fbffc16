package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/cruxstack/find-my-rep-go/internal/config"
	"github.com/cruxstack/find-my-rep-go/internal/logging"
	"github.com/cruxstack/find-my-rep-go/internal/sender"
	"github.com/cruxstack/find-my-rep-go/internal/templates"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

var (
	dataPath   string
	policyPath string
	transport  string
)

func init() {
	flag.StringVar(&dataPath, "data", "", "path to JSON file with letter requests")
	flag.StringVar(&policyPath, "policy", "", "override path to Rego policy file")
	flag.StringVar(&transport, "transport", "", "override transport mode")
	flag.Parse()
}

func NewDebugConfig() (*config.Config, error) {
	envpath := filepath.Join("..", "..", ".env")
	if _, err := os.Stat(envpath); err == nil {
		_ = godotenv.Load(envpath)
	}

	// letters go to the log file unless a transport is asked for
	if os.Getenv("APP_TRANSPORT") == "" {
		os.Setenv("APP_TRANSPORT", config.TransportTest)
	}
	if os.Getenv("APP_TEST_LOG_DIR") == "" {
		os.Setenv("APP_TEST_LOG_DIR", os.TempDir())
	}

	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	cfg.DebugMode = true

	if transport != "" {
		cfg.AppTransport = transport
	}

	if cfg.AppPolicyPath == "" {
		cfg.AppPolicyPath = filepath.Join("..", "..", "fixtures", "letter-policy.rego")
	}
	if policyPath != "" {
		cfg.AppPolicyPath = policyPath
	}

	if cfg.AppLetterTemplatePath == "" {
		cfg.AppLetterTemplatePath = filepath.Join("..", "..", "fixtures", "letter-template.txt")
	}

	if cfg.DebugDataPath == "" {
		cfg.DebugDataPath = filepath.Join("..", "..", "fixtures", "debug-data.json")
	}
	if dataPath != "" {
		cfg.DebugDataPath = dataPath
	}

	return cfg, nil
}

func main() {
	cfg, err := NewDebugConfig()
	if err != nil {
		log.Fatal("failed to debug load config", "error", err)
	}
	logging.Setup(cfg.AppLogLevel, "debug")

	ctx := context.Background()

	s, err := sender.NewSender(ctx, cfg)
	if err != nil {
		log.Fatal("failed to init sender", "error", err)
	}

	tmpl, err := templates.Load(cfg.AppLetterTemplatePath)
	if err != nil {
		log.Fatal("failed to load letter template", "path", cfg.AppLetterTemplatePath, "error", err)
	}

	data, err := os.ReadFile(cfg.DebugDataPath)
	if err != nil {
		log.Fatal("failed to read data file", "path", cfg.DebugDataPath, "error", err)
	}

	requests := []sender.LetterRequest{}
	if err := json.Unmarshal(data, &requests); err != nil {
		log.Fatal("failed to parse data file", "error", err)
	}

	failed := false
	for i, req := range requests {
		if req.LetterContent == "" {
			req.LetterContent = tmpl
		}

		outcome, err := s.SendLetter(ctx, req)
		if err != nil {
			if re, ok := sender.IsRequestError(err); ok {
				log.Warn("letter rejected", "index", i, "reason", re.Message)
				continue
			}
			log.Error("letter iteration failed", "index", i, "error", err)
			failed = true
			continue
		}

		if outcome.Status() != types.StatusComplete {
			log.Error("letter iteration incomplete", "index", i, "summary", outcome.Summary(), "errors", outcome.Errors)
			failed = true
			continue
		}
		log.Info("letter iteration passed", "index", i, "summary", outcome.Summary())
	}

	if failed {
		os.Exit(1)
	}
	log.Info("debug run passed", "transport", s.Transport.Name())
}
