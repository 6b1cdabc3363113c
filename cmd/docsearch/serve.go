// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-docsearch/internal/logger"
	"github.com/ianlewis/go-docsearch/internal/server"
)

var serveCommand = &cli.Command{
	Name:      "serve",
	Usage:     "serve the search API over HTTP",
	ArgsUsage: " ",
	Description: "Load all documentation sets and answer search queries at " +
		"/api/v1/search until interrupted.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Usage:   "listen on `ADDR`",
			Aliases: []string{"a"},
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 0 {
			return fmt.Errorf("%w: unexpected arguments: %v", ErrFlagParse, c.Args().Slice())
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if c.IsSet("addr") {
			cfg.Server.Addr = c.String("addr")
		}
		log := logger.WithComponent("cli")

		sets, errs := openDocSets(cfg)
		for _, err := range errs {
			log.Warn("failed to open documentation set", "error", err)
		}
		log.Info("documentation sets loaded", "sets", len(sets), "errors", len(errs))

		opts := &server.Options{
			DefaultSection: cfg.Search.DefaultSection,
			DefaultLimit:   cfg.Search.DefaultLimit,
			MaxResults:     cfg.Search.MaxResults,
			MetricsPath:    cfg.Metrics.Path,
		}
		if cfg.Metrics.Enabled {
			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			opts.Registry = reg
		}
		s := server.New(sets, opts)

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		var lc net.ListenConfig
		l, err := lc.Listen(ctx, "tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
		}

		srv := &http.Server{
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			BaseContext:  func(net.Listener) context.Context { return ctx },
		}
		if err := s.Serve(ctx, l, srv, cfg.Server.ShutdownTimeout); err != nil {
			return err
		}
		log.Info("stopped")
		return nil
	},
}
