package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cuelang.org/go/cue"
	"github.com/cbroglie/mustache"
	"github.com/epithet-ssh/qmqp/pkg/qmqp"
	"github.com/epithet-ssh/qmqp/pkg/qmqpclient"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultReadTimeout    = 2 * time.Minute
)

type SendCLI struct {
	Sender     string   `arg:"" help:"Envelope sender address"`
	Recipients []string `arg:"" help:"Envelope recipient addresses"`

	Host           string        `help:"QMQP server host (default localhost)" short:"H" env:"QMQP_HOST"`
	Port           int           `help:"QMQP server port (default 628)" short:"p" env:"QMQP_PORT"`
	ConnectTimeout time.Duration `help:"Connection timeout (default 30s)" env:"QMQP_CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `help:"Timeout for each read of the response (default 2m)" env:"QMQP_READ_TIMEOUT"`
	Format         string        `help:"Mustache template for the result; fields: Code, Details, Accepted, Sender, Recipients" short:"f" default:"{{Code}}: {{{Details}}}"`
}

func (c *SendCLI) Run(ctx context.Context, logger *slog.Logger, unifiedConfig cue.Value, std *stdio) error {
	cfg, err := c.loadClientConfig(unifiedConfig)
	if err != nil {
		return fmt.Errorf("failed to load client config: %w", err)
	}
	c.applyOverrides(cfg)

	client, err := qmqpclient.NewFromConfig(*cfg, qmqpclient.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}

	message, err := io.ReadAll(std.In)
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	req, err := qmqp.NewRequest(message, c.Sender, c.Recipients...)
	if err != nil {
		fmt.Fprintf(std.Err, "qmqp: %v\n", err)
		return exitError(exitUsage)
	}

	logger.Info("sending message",
		"addr", client.Addr(),
		"sender", req.Sender(),
		"recipients", len(req.Recipients()),
		"bytes", len(message))

	resp, err := client.Send(ctx, req)
	if err != nil {
		var te *qmqpclient.TransportError
		if errors.As(err, &te) && te.Timeout() {
			logger.Warn("qmqp server timed out", "addr", te.Addr, "phase", te.Phase)
		}
		return err
	}

	out, err := renderResult(c.Format, req, resp)
	if err != nil {
		return fmt.Errorf("failed to render --format: %w", err)
	}
	fmt.Fprintln(std.Out, out)

	if !resp.Accepted() {
		return exitError(exitFailure)
	}
	return nil
}

// loadClientConfig decodes the client section of the unified config.
func (c *SendCLI) loadClientConfig(unifiedConfig cue.Value) (*qmqpclient.Config, error) {
	cfg := &qmqpclient.Config{}

	clientVal := unifiedConfig.LookupPath(cue.ParsePath("client"))
	if !clientVal.Exists() {
		return cfg, nil
	}
	if err := clientVal.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides lets flags and environment win over config files, then
// fills the CLI's own timeout defaults.
func (c *SendCLI) applyOverrides(cfg *qmqpclient.Config) {
	if c.Host != "" {
		cfg.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Port = c.Port
	}
	if c.ConnectTimeout > 0 {
		cfg.ConnectTimeout = c.ConnectTimeout.String()
	}
	if c.ReadTimeout > 0 {
		cfg.ReadTimeout = c.ReadTimeout.String()
	}

	if cfg.ConnectTimeout == "" {
		cfg.ConnectTimeout = defaultConnectTimeout.String()
	}
	if cfg.ReadTimeout == "" {
		cfg.ReadTimeout = defaultReadTimeout.String()
	}
}

func renderResult(format string, req qmqp.Request, resp qmqp.Response) (string, error) {
	return mustache.Render(format, map[string]any{
		"Code":       resp.Code().String(),
		"Details":    resp.Details(),
		"Accepted":   resp.Accepted(),
		"Sender":     req.Sender(),
		"Recipients": req.Recipients(),
	})
}
