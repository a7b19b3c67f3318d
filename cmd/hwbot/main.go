package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"hwbot/internal/app"
	"hwbot/internal/failure"
	logx "hwbot/pkg/logx"
)

func main() {
	var opts app.Options
	pflag.StringVarP(&opts.ConfigPath, "config", "c", "", "optional config file (json or yaml)")
	pflag.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with PRACTICUM_TOKEN, TELEGRAM_TOKEN, TELEGRAM_CHAT_ID")
	pflag.BoolVar(&opts.Once, "once", false, "run a single poll cycle and exit")
	pflag.Parse()
	opts.EnvFileRequired = pflag.CommandLine.Changed("env-file")

	boot := logx.NewConsole("INFO")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(opts, boot)
	if err != nil {
		boot.Error("startup failed", logx.String("kind", failure.KindOf(err).String()), logx.Err(err))
		os.Exit(1)
	}

	// Run returns an error only for a fatal start failure or a failed --once cycle.
	err = a.Run(ctx)
	_ = a.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
