// soaphostdemo runs a small SOAP endpoint exercising every argument-binding
// style this module supports: document-wrapped, document-bare, a one-way
// notification, and a message-contract operation with a custom header.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vikstrom/soaphost/pkg/dispatch"
	"github.com/vikstrom/soaphost/pkg/logging"
	"github.com/vikstrom/soaphost/pkg/metrics"
	"github.com/vikstrom/soaphost/pkg/requestlog"
	"github.com/vikstrom/soaphost/pkg/servicemodel"
	"github.com/vikstrom/soaphost/pkg/soap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("soaphostdemo", flag.ContinueOnError)
	port := fs.Int("port", 4280, "port to listen on")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	configFile := fs.String("config", "", "path to a YAML file overriding the endpoint's dispatch options")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(*logLevel),
		Format: logging.ParseFormat(*logFormat),
		Output: os.Stderr,
	})
	metrics.Init()
	reqLog := requestlog.NewMemoryStore(1000)

	svc := NewCalculatorService()
	desc, err := servicemodel.Build(svc, calculatorContracts)
	if err != nil {
		return fmt.Errorf("building service model: %w", err)
	}

	opts := dispatch.Options{
		Path: "/calculator",
		Encoders: []soap.EncoderOptions{
			{Version: soap.Version11},
			{Version: soap.Version12},
		},
		HTTPGetEnabled: true,
		WSDLFile:       os.Getenv("SOAPHOSTDEMO_WSDL_FILE"),
	}
	if *configFile != "" {
		opts, err = dispatch.LoadOptions(*configFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if opts.Path == "" {
			opts.Path = "/calculator"
		}
		if len(opts.Encoders) == 0 {
			opts.Encoders = []soap.EncoderOptions{{Version: soap.Version11}, {Version: soap.Version12}}
		}
	}

	endpoint, err := dispatch.NewEndpoint("calculator", svc, desc, opts)
	if err != nil {
		return fmt.Errorf("building endpoint: %w", err)
	}
	endpoint.SetLogger(log)
	endpoint.SetRequestLogger(reqLog)

	mux := http.NewServeMux()
	mux.Handle(endpoint.Pattern(), endpoint)

	addr := fmt.Sprintf(":%d", *port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Info("soap endpoint listening", "addr", addr, "path", endpoint.Pattern())

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	return server.Close()
}
