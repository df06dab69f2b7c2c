// cmd/benchreport-api/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "k8s.io/klog/v2"

	"benchreport/internal/app"
	"benchreport/internal/config"
)

var BuildVersion = "dev" // set via ldflags

func main() {
	log.InitFlags(nil)
	flag.Parse()
	defer log.Flush()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	a := app.New(ctx, cfg)
	cancel()
	defer a.Close()

	srv := a.Server(":" + cfg.AppPort)
	go func() {
		log.Infof("%s %s running on %s", cfg.AppName, BuildVersion, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server...")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
