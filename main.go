package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ahmed-Sermani/pagerank/cmd"
	"github.com/sirupsen/logrus"
)

var (
	appName = "PageRank"
	appSha  = ""
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	rootLogger.SetOutput(os.Stderr)
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := run(rootLogger, logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		os.Exit(1)
	}
}

func run(rootLogger *logrus.Logger, logger *logrus.Entry) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGHUP)
	defer cancel()

	return cmd.NewRootCommand(rootLogger, logger).ExecuteContext(ctx)
}
