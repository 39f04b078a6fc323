package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Strut/internal/auth"
	batch "Strut/internal/calc/batch"
	hsb21030 "Strut/internal/calc/hsb21030"
	importer "Strut/internal/calc/importer"
	loads "Strut/internal/calc/loads"
	report "Strut/internal/calc/report"
	config "Strut/internal/config"
	logger "Strut/internal/logger"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, cfg *config.Config) {
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey)}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := logger.IsReady(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	api.Use(authEnv.AuthMiddleware)

	calcH := &hsb21030.Handler{MaxIterations: cfg.MaxIterations}
	importH := &importer.Handler{MaxIterations: cfg.MaxIterations}
	batchH := &batch.Handler{MaxIterations: cfg.MaxIterations}
	reportH := &report.Handler{MaxIterations: cfg.MaxIterations}
	loadsH := &loads.Handler{}

	api.HandleFunc("/tools/fasteners/calc", calcH.Calc).Methods("POST")
	api.HandleFunc("/tools/fasteners/transfer", loadsH.Calc).Methods("POST")
	api.HandleFunc("/tools/fasteners/import", importH.Fasteners).Methods("POST")
	api.HandleFunc("/tools/fasteners/loadcase", importH.LoadCase).Methods("POST")
	api.HandleFunc("/tools/fasteners/batch", batchH.Fasteners).Methods("POST")
	api.HandleFunc("/tools/fasteners/report", reportH.Generate).Methods("POST")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".")
	if err != nil {
		logger.New(os.Stderr, "error").Error("config", "err", err)
		os.Exit(1)
	}
	closeLog, err := logger.Setup(logger.Config{Dir: cfg.LogDir, Level: cfg.LogLevel})
	if err != nil {
		logger.New(os.Stderr, "error").Error("logger", "err", err)
		os.Exit(1)
	}
	defer closeLog()
	log := logger.L()

	mux := mux.NewRouter()
	HandleList(mux, cfg)
	handler := CORS(mux)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("server.starting", "addr", cfg.Addr)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server.error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server.shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server.shutdown.failed", "err", err)
	}
	wg.Wait()
	log.Info("server.stopped")
}
