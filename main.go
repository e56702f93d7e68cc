package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"k8s.io/klog/v2"

	"github.com/orgforge-labs/orgforge/internal"
	"github.com/orgforge-labs/orgforge/internal/handler"
	"github.com/orgforge-labs/orgforge/pkg/catalog"
	"github.com/orgforge-labs/orgforge/pkg/clients"
	"github.com/orgforge-labs/orgforge/pkg/config"
	"github.com/orgforge-labs/orgforge/pkg/model"
	"github.com/orgforge-labs/orgforge/pkg/sessions"
)

func main() {
	// set global timezone
	time.Local = time.UTC

	backendConfig := config.GetConfig()
	// variable changes in local development
	if gin.Mode() == gin.DebugMode {
		err := godotenv.Load(".debug.env")
		if err != nil {
			panic(err.Error())
		}
		be := os.Getenv("ORGFORGE_BE_PORT")
		if be == "" {
			panic("ORGFORGE_BE_PORT is not set")
		}
		backendConfig.ServerAddr = ":" + be
	}

	catalogStore, err := catalog.Load()
	if err != nil {
		klog.Error("load template catalog: ", err)
		os.Exit(1)
	}

	store := sessions.NewStore(model.DefaultIDSource, backendConfig.SessionTTL())
	sweeper := sessions.NewSweeper(store, backendConfig.Session.SweepCron)
	if err = sweeper.Start(); err != nil {
		klog.Error("start session sweeper: ", err)
		os.Exit(1)
	}

	subgraph := clients.NewSubgraphClient()
	backend := internal.Register(&handler.RegisterConfig{
		Store:     store,
		Catalog:   catalogStore,
		Directory: subgraph,
		Infra:     subgraph,
		Deployer:  clients.NewRelayClient(),
		Metadata:  clients.NewMetadataClient(),
	})

	srv := &http.Server{
		Addr:              backendConfig.ServerAddr,
		Handler:           backend.R,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		klog.Info("starting server on ", backendConfig.ServerAddr)
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			klog.Error("problem running server: ", serveErr)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	klog.Info("shutting down")
	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		klog.Error("server shutdown: ", err)
	}
}
