// Package app wires the bridge server together: logging router, trajectory
// catalog, hub and HTTP surface.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	server "shotline/server"
	servernet "shotline/server/internal/net"
	serverws "shotline/server/internal/net/ws"
	"shotline/server/logging"
	loggingSinks "shotline/server/logging/sinks"
	"shotline/server/trajectory/catalog"
)

// Run starts the bridge server and blocks until the listener fails or ctx is
// cancelled. Configuration comes from the environment:
//
//	SHOTLINE_ADDR       listen address, default :8080
//	SHOTLINE_TEMPLATES  directory of trajectory documents, optional
//	SHOTLINE_LOG_JSON   JSON-lines log file path, optional
func Run(ctx context.Context) error {
	logger := log.Default()

	logConfig := logging.DefaultConfig()
	if path := os.Getenv("SHOTLINE_LOG_JSON"); path != "" {
		logConfig.JSON.FilePath = path
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
	}

	var namedSinks []logging.NamedSink
	if logConfig.HasSink("console") {
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: "console",
			Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console),
		})
	}
	if logConfig.HasSink("json") {
		jsonSink, err := loggingSinks.NewJSONSink(logConfig.JSON)
		if err != nil {
			return fmt.Errorf("failed to open JSON log sink: %w", err)
		}
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: jsonSink})
	}

	router, err := logging.NewRouter(nil, logConfig, namedSinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(context.Background()); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	hubCfg := server.DefaultHubConfig()
	hubCfg.Publisher = router
	if dir := os.Getenv("SHOTLINE_TEMPLATES"); dir != "" {
		cat, err := catalog.Load(os.DirFS(dir), ".")
		if err != nil {
			return fmt.Errorf("failed to load trajectory catalog: %w", err)
		}
		hubCfg.Catalog = cat
		logger.Printf("loaded %d trajectory templates from %s", cat.Len(), dir)
	}

	hub := server.NewHubWithConfig(hubCfg)

	mux := http.NewServeMux()
	mux.Handle("/", servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{Logger: logger}))
	mux.HandleFunc("/ws", serverws.NewHandler(hub, serverws.HandlerConfig{Logger: logger}).Handle)

	addr := os.Getenv("SHOTLINE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Printf("server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
