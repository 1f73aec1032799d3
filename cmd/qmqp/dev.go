package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/epithet-ssh/qmqp/pkg/qmqp"
	"github.com/epithet-ssh/qmqp/pkg/qmqptest"
)

type DevCLI struct {
	Server DevServerCLI `cmd:"server" help:"Run a local QMQP sink that answers every request the same way"`
}

type DevServerCLI struct {
	Listen  string        `help:"Address to listen on" short:"l" default:"127.0.0.1:6280"`
	Code    string        `help:"Return code to answer with: OK, TEMP_FAIL, PERM_FAIL" short:"r" default:"OK" enum:"OK,TEMP_FAIL,PERM_FAIL"`
	Details string        `help:"Detail text to answer with" short:"d" default:"queued by qmqp dev server"`
	Delay   time.Duration `help:"Wait this long before answering"`

	// onListen is called with the bound address once the server is up.
	onListen func(addr string)
}

func (c *DevServerCLI) Run(ctx context.Context, logger *slog.Logger) error {
	code, err := returnCodeByName(c.Code)
	if err != nil {
		return err
	}

	server, err := qmqptest.Start(c.Listen, qmqptest.Static(code, c.Details),
		qmqptest.WithDelay(c.Delay),
		qmqptest.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Warn("qmqp dev server listening", "addr", server.Addr(), "code", code, "details", c.Details)
	if c.onListen != nil {
		c.onListen(server.Addr())
	}

	<-ctx.Done()
	logger.Info("shutting down qmqp dev server")
	return server.Close()
}

func returnCodeByName(name string) (qmqp.ReturnCode, error) {
	for _, rc := range []qmqp.ReturnCode{qmqp.OK, qmqp.TempFail, qmqp.PermFail} {
		if rc.String() == name {
			return rc, nil
		}
	}
	return 0, fmt.Errorf("unknown return code %q", name)
}
