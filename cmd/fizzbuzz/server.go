package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
	httphandler "github.com/onelson/fizzbuzz-scheduler/pkg/queue/httphandler"
	version "github.com/onelson/fizzbuzz-scheduler/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServerCommands struct {
	RunServer RunServer `cmd:"" name:"run-server" help:"Run the HTTP server." group:"SERVER"`
}

type RunServer struct {
	DatabaseOptions

	// TLS server options
	TLS struct {
		ServerName string `name:"name" help:"TLS server name"`
		CertFile   string `name:"cert" help:"TLS certificate file"`
		KeyFile    string `name:"key" help:"TLS key file"`
	} `embed:"" prefix:"tls."`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunServer) Run(ctx *Globals) error {
	conn, manager, err := cmd.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Register HTTP handlers
	router := http.NewServeMux()
	middleware := httphandler.HTTPMiddlewareFuncs{
		httphandler.WithLogger(ctx.log),
	}
	if ctx.tracer != nil {
		middleware = append(httphandler.HTTPMiddlewareFuncs{otel.HTTPHandlerFunc(ctx.tracer)}, middleware...)
	}
	httphandler.RegisterHandlers(router, ctx.HTTP.Prefix, manager, middleware)

	// Create a TLS config
	var tlsconfig *tls.Config
	if cmd.TLS.CertFile != "" || cmd.TLS.KeyFile != "" {
		tlsconfig, err = httpserver.TLSConfig(cmd.TLS.ServerName, true, cmd.TLS.CertFile, cmd.TLS.KeyFile)
		if err != nil {
			return err
		}
	}

	// Create a HTTP server
	server, err := httpserver.New(ctx.HTTP.Addr, router, tlsconfig)
	if err != nil {
		return err
	}

	// Run the server until cancelled
	ctx.log.Print(ctx.ctx, version.ExecName(), " ", version.Version())
	ctx.log.Print(ctx.ctx, "listening on ", ctx.HTTP.Addr+ctx.HTTP.Prefix)
	if err := server.Run(ctx.ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}

	// Terminated message
	ctx.log.Print(ctx.ctx, version.ExecName(), " terminated")
	return nil
}
