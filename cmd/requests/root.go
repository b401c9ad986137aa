// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package main

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/joamaki/pushstream/logging"
	"github.com/joamaki/pushstream/logging/logfields"
	"github.com/joamaki/pushstream/requests"
	httpsource "github.com/joamaki/pushstream/sources/http"
	"github.com/joamaki/pushstream/stream"
)

const envPrefix = "PUSHSTREAM"

const (
	keyConfig      = "config"
	keyFile        = "file"
	keyTarget      = "target"
	keyRate        = "rate"
	keyBurst       = "burst"
	keyCancelAfter = "cancel-after"
	keyTimeout     = "timeout"
	keyLogLevel    = "log-level"
	keyLogFormat   = "log-format"
)

type config struct {
	File        string
	Target      string
	Rate        float64
	Burst       int
	CancelAfter int
	Timeout     time.Duration
	LogLevel    string
	LogFormat   string
}

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	vp := viper.New()

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Stream requests to a handler",
		Long: `Subscribes a request handler to a stream of requests, either the built-in
sample set or the ones in a YAML file. With --target every request is sent
to the given base URL and handled according to the response status.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(vp)
			if err != nil {
				return err
			}
			if err := logging.SetLogLevel(logger, cfg.LogLevel); err != nil {
				return err
			}
			if err := logging.SetLogFormat(logger, cfg.LogFormat); err != nil {
				return err
			}
			return run(cmd.Context(), logger, cfg)
		},
	}

	flags := cmd.Flags()
	registerFlags(flags)

	if err := vp.BindPFlags(flags); err != nil {
		panic(errors.Wrap(err, "binding flags"))
	}
	vp.SetEnvPrefix(envPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vp.AutomaticEnv()

	return cmd
}

func registerFlags(flags *pflag.FlagSet) {
	flags.String(keyConfig, "", "Configuration file")
	flags.String(keyFile, "", "YAML file with the requests, the sample set is used if empty")
	flags.String(keyTarget, "", "Base URL to send the requests to, handled locally if empty")
	flags.Float64(keyRate, 0, "Maximum requests per second sent to the target, 0 for no limit")
	flags.Int(keyBurst, 1, "Number of requests that may be sent at once when rate limited")
	flags.Int(keyCancelAfter, 0, "Unsubscribe after this many requests, 0 to handle all")
	flags.Duration(keyTimeout, 10*time.Second, "Timeout for each request sent to the target")
	flags.String(keyLogLevel, logrus.InfoLevel.String(), "Log level")
	flags.String(keyLogFormat, logging.FormatText, "Log format, text or json")
}

func loadConfig(vp *viper.Viper) (config, error) {
	if path := vp.GetString(keyConfig); path != "" {
		vp.SetConfigFile(path)
		if err := vp.ReadInConfig(); err != nil {
			return config{}, errors.Wrap(err, "reading configuration")
		}
	}

	cfg := config{
		File:        vp.GetString(keyFile),
		Target:      vp.GetString(keyTarget),
		Rate:        vp.GetFloat64(keyRate),
		Burst:       vp.GetInt(keyBurst),
		CancelAfter: vp.GetInt(keyCancelAfter),
		Timeout:     vp.GetDuration(keyTimeout),
		LogLevel:    vp.GetString(keyLogLevel),
		LogFormat:   vp.GetString(keyLogFormat),
	}
	switch {
	case cfg.Rate < 0:
		return config{}, errors.Errorf("--%s must not be negative", keyRate)
	case cfg.Burst < 1:
		return config{}, errors.Errorf("--%s must be at least 1", keyBurst)
	case cfg.CancelAfter < 0:
		return config{}, errors.Errorf("--%s must not be negative", keyCancelAfter)
	}
	return cfg, nil
}

func run(ctx context.Context, logger *logrus.Logger, cfg config) error {
	log := logger.WithField(logfields.LogSubsys, "requests")

	reqs, err := loadRequests(cfg)
	if err != nil {
		return err
	}

	handler := requests.NewHandler(logger.WithField(logfields.LogSubsys, "handler"))
	handlers := handler.Handlers()

	if cfg.Target != "" {
		next, err := dispatcher(ctx, logger, cfg, handler)
		if err != nil {
			return err
		}
		handlers.Next = next
	}

	if cfg.CancelAfter > 0 {
		var (
			sub  *stream.Subscription
			seen int
			next = handlers.Next
		)
		handlers.Start = func(s *stream.Subscription) { sub = s }
		handlers.Next = func(req requests.Request) {
			next(req)
			seen++
			if seen >= cfg.CancelAfter {
				log.WithField(logfields.Handled, seen).Info("Cancelling")
				sub.Unsubscribe()
			}
		}
	}

	src := stream.From(reqs, stream.WithLogger(logger.WithField(logfields.LogSubsys, "source")))
	sub := src.Subscribe(handlers)
	sub.Unsubscribe()

	summary := handler.Summary()
	log.WithFields(logrus.Fields{
		logfields.Total:     len(reqs),
		logfields.Handled:   summary.Handled,
		logfields.Failed:    summary.Failed,
		logfields.Completed: summary.Completed,
	}).Info("Done")

	if summary.Err != nil {
		return summary.Err
	}
	if summary.Failed > 0 {
		return errors.Errorf("%d of %d requests failed", summary.Failed, summary.Handled)
	}
	return nil
}

func loadRequests(cfg config) ([]requests.Request, error) {
	if cfg.File == "" {
		return requests.Mock(time.Now()), nil
	}
	return requests.LoadFile(cfg.File)
}

// dispatcher returns a Next handler that sends each request to the target
// and records the response status.
func dispatcher(ctx context.Context, logger *logrus.Logger, cfg config, handler *requests.Handler) (func(requests.Request), error) {
	base, err := url.Parse(cfg.Target)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing --%s", keyTarget)
	}

	log := logger.WithField(logfields.LogSubsys, "dispatch")
	opts := []httpsource.ClientOption{httpsource.WithLogger(log)}
	if cfg.Rate > 0 {
		opts = append(opts, httpsource.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)))
	}
	client := httpsource.NewClient(opts...)

	return func(req requests.Request) {
		reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		target := req.URL(base)
		resp, err := stream.First(reqCtx, client.Send(base, req))
		if err != nil {
			log.WithError(err).WithField(logfields.RequestID, req.ID).Warn("Failed to send request")
			handler.HandleResult(req, target, requests.StatusInternalServerError)
			return
		}
		handler.HandleResult(req, target, requests.Status(resp.StatusCode))
	}, nil
}
