// Command solve-demo runs one end-to-end CAPTCHA solve: it connects to a
// remote browser, opens the target page, extracts the reCAPTCHA site key,
// obtains a token from the solving service, injects it, and submits the form.
// Exits 0 on success, 1 on any failure.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	captcha "github.com/anatolykoptev/go-captcha"
	"github.com/anatolykoptev/go-captcha/browser"
	"github.com/anatolykoptev/go-captcha/config"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("solve demo failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	solver, err := captcha.NewClient(captcha.ClientConfig{
		APIKey:          cfg.ServiceCredential,
		PollInterval:    cfg.PollInterval(),
		MaxPollAttempts: cfg.MaxPollAttempts,
	})
	if err != nil {
		return err
	}

	session, err := browser.Connect(ctx, cfg.BrowserWS)
	if err != nil {
		return err
	}
	defer session.Close()

	pg, err := session.NewPage(ctx)
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Navigate(cfg.TargetURL); err != nil {
		return err
	}

	siteKey, err := pg.SiteKey()
	if err != nil {
		return err
	}
	slog.Info("site key extracted", slog.String("siteKey", siteKey), slog.String("url", cfg.TargetURL))

	token, err := solver.Solve(ctx, siteKey, cfg.TargetURL)
	if err != nil {
		return err
	}

	if err := pg.SubmitSolution(ctx, token); err != nil {
		return err
	}

	finalURL, err := pg.CurrentURL()
	if err != nil {
		return err
	}
	slog.Info("form submitted", slog.String("url", finalURL))
	return nil
}
