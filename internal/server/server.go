package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/emrgen/glossary/internal/config"
	"github.com/emrgen/glossary/internal/jobs"
	"github.com/emrgen/glossary/internal/service"
	"github.com/emrgen/glossary/internal/store"
)

// Version is reported by the health endpoint.
const Version = "1.1.0"

// Start runs the http server until it is interrupted.
func Start(cnf *config.Config) error {
	addr := net.JoinHostPort(cnf.Host, cnf.Port)

	db := config.GetDb(cnf)

	glossaryStore := store.NewGormStore(db)
	if err := glossaryStore.Migrate(); err != nil {
		return err
	}

	glossaries := service.NewGlossaryService(glossaryStore)
	likes := service.NewLikeService(glossaryStore)

	runner := jobs.NewRunner(jobs.NewStatsReporter(glossaryStore, cnf.StatsSchedule))
	runner.Start()

	h := newHandler(glossaries, likes, glossaryStore)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", identityHeader},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    addr,
		Handler: c.Handler(h.routes()),
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting glossary server on: ", addr)
		if err := restServer.Serve(listener); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting server: %v", err)
			}
		}
		logrus.Infof("glossary server stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	runner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := restServer.Shutdown(ctx); err != nil {
		logrus.Errorf("error stopping server: %v", err)
	}

	wg.Wait()

	return nil
}
