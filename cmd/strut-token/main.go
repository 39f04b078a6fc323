// Command strut-token prints a bearer token for the fastener API, signed
// with the token key from the service configuration.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"Strut/internal/auth"
	"Strut/internal/config"
	"Strut/internal/logger"
)

func main() {
	dir := flag.String("config", ".", "directory holding .env and strut.yaml")
	subject := flag.String("sub", "", "token subject (user or team)")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	logger.Set(logger.New(os.Stderr, "info"))

	cfg, err := config.Load(*dir)
	if err != nil {
		logger.L().Error("config", "err", err)
		os.Exit(1)
	}
	env := &auth.Authenv{JWTkey: []byte(cfg.TokenKey)}
	tok, err := env.IssueToken(*subject, *ttl)
	if err != nil {
		logger.L().Error("issue token", "err", err)
		os.Exit(1)
	}
	logger.L().Info("token.issued", slog.String("sub", *subject), slog.Duration("ttl", *ttl))
	fmt.Println(tok)
}
