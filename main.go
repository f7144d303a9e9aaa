package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	intconfig "busops/internal/config"
	router "busops/internal/http"
	"busops/internal/services"
	"busops/internal/store"
)

func main() {
	env := intconfig.LoadEnv()

	pflag.StringVar(&env.AppAddr, "addr", env.AppAddr, "listen address")
	pflag.StringVar(&env.StoreDriver, "store", env.StoreDriver, "document backend: file or mysql")
	pflag.StringVar(&env.DataFile, "data", env.DataFile, "document file for the file backend")
	pflag.StringVar(&env.MySQLDSN, "mysql-dsn", env.MySQLDSN, "DSN for the mysql backend")
	pflag.StringSliceVar(&env.CORSOrigins, "cors-origin", env.CORSOrigins, "allowed CORS origins (* for any)")
	pflag.DurationVar(&env.SweepInterval, "sweep-interval", env.SweepInterval, "background lifecycle sweep interval (0 disables)")
	pflag.Parse()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, db := openBackend(ctx, env)
	if db != nil {
		defer db.Close()
	}

	svc := services.New(store.New(backend))
	if _, err := svc.Store.Read(ctx); err != nil {
		log.Fatalf("failed to load document: %v", err)
	}

	if env.SweepInterval > 0 {
		go svc.Lifecycle.Run(ctx, env.SweepInterval)
	}

	r := router.NewRouter(env, svc)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s (store=%s)", env.AppAddr, env.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}

func openBackend(ctx context.Context, env intconfig.Env) (store.Backend, *sql.DB) {
	switch env.StoreDriver {
	case "mysql":
		if env.MySQLDSN == "" {
			log.Fatalf("MYSQL_DSN is required when STORE_DRIVER=mysql")
		}
		db, err := intconfig.ConnectDB(ctx, env.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect to MySQL: %v", err)
		}
		backend := store.NewMySQLBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to prepare document table: %v", err)
		}
		return backend, db
	case "file", "":
		return store.NewFileBackend(env.DataFile), nil
	default:
		log.Fatalf("unknown STORE_DRIVER %q", env.StoreDriver)
		return nil, nil
	}
}
