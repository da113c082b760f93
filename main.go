package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"booking-app/config"
	"booking-app/database"
	adminapi "booking-app/internal/api/admin"
	bookingsapi "booking-app/internal/api/bookings"
	columnsapi "booking-app/internal/api/columns"
	mediaapi "booking-app/internal/api/media"
	plansapi "booking-app/internal/api/plans"
	profilesapi "booking-app/internal/api/profiles"
	siteapi "booking-app/internal/api/site"
	routes "booking-app/internal/app/http"
	"booking-app/internal/infra/cloudinary"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/infra/metrics"
	"booking-app/internal/records"
	"booking-app/internal/reservations"
	"booking-app/internal/roster"
	"booking-app/internal/schema"
	"booking-app/internal/siteinfo"
	"booking-app/internal/tablegen"
	"booking-app/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()
	config.InitLogger()
	if config.GIN_MODE != "" {
		gin.SetMode(config.GIN_MODE)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := database.OpenDocStore(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to open document store")
	}
	client := docstore.NewClient(driver, docstore.WithMetrics(metrics.NewStore(prometheus.DefaultRegisterer)))
	defer client.Close()

	registry := schema.NewRegistry(client)
	registry.Start(ctx)
	defer registry.Stop()

	recs := records.NewStore(client, registry)
	recs.Start(ctx)
	defer recs.Stop()

	bookingStore := reservations.NewStore(client)
	bookingStore.Start(ctx)
	defer bookingStore.Stop()

	profileStore := roster.NewStore(client)
	profileStore.Start(ctx)
	defer profileStore.Stop()

	gen := tablegen.NewGenerator(registry)
	defer gen.Close()

	flow := workflow.New(registry, recs, gen)
	uploader, err := cloudinary.New(config.CLOUDINARY_API_BASE, config.CLOUDINARY_CLOUD_NAME, config.CLOUDINARY_UPLOAD_PRESET)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up Cloudinary")
	}
	if !uploader.Configured() {
		log.Warn("Cloudinary is not configured, image uploads are disabled")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	media := mediaapi.New(uploader, client)
	routes.RegisterRoutes(r, routes.Handlers{
		Admin:    adminapi.New(registry, recs, bookingStore, profileStore, flow),
		Columns:  columnsapi.New(registry, flow),
		Plans:    plansapi.New(recs, gen, flow),
		Media:    media,
		Bookings: bookingsapi.New(bookingStore, flow),
		Profiles: profilesapi.New(profileStore, media, flow),
		Site:     siteapi.New(siteinfo.NewStore(client), media, flow),
	})

	srv := &http.Server{
		Addr:    ":" + config.PORT,
		Handler: r,
		// open event streams end with the process context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		log.WithFields(log.Fields{"port": config.PORT, "store": driver.Name()}).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Graceful shutdown failed")
	}
}
