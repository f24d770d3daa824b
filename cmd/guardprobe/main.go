// Command guardprobe asks a running server for every guarded page without
// following redirects and prints where the route guard sends each one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/amiskov/spendahead/pkg/config"
	"github.com/amiskov/spendahead/pkg/logger"
	"github.com/amiskov/spendahead/pkg/probe"
	"github.com/amiskov/spendahead/pkg/session"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Server base URL.")
	cookie := flag.String("cookie", "", "Session cookie value to send.")
	cookieName := flag.String("cookie-name", session.DefaultCookieName, "Session cookie name.")
	routesFile := flag.String("routes", "", "YAML routes file.")
	timeout := flag.Duration("timeout", 5*time.Second, "Per-request timeout.")
	flag.Parse()

	l := logger.Run("warn")
	defer func() { _ = l.Sync() }()

	routes, err := config.LoadRoutes(*routesFile)
	if err != nil {
		log.Fatalln(err)
	}

	paths := []string{"/"}
	paths = append(paths, routes.Protected...)
	paths = append(paths, routes.PublicAuth...)

	ctx := logger.ContextWithLogger(context.Background(), l)
	results, err := probe.New(*baseURL, *cookieName, *cookie, *timeout).ProbeAll(ctx, paths)
	for _, r := range results {
		fmt.Println(r)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
