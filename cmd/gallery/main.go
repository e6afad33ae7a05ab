package main

import (
	"context"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	artworkhandler "galleria/internal/artworks/handler"
	artworkrepo "galleria/internal/artworks/repository"
	artworkservice "galleria/internal/artworks/service"
	artworkvalidator "galleria/internal/artworks/validator"
	exhibitionhandler "galleria/internal/exhibitions/handler"
	exhibitionrepo "galleria/internal/exhibitions/repository"
	exhibitionservice "galleria/internal/exhibitions/service"
	exhibitionvalidator "galleria/internal/exhibitions/validator"
	healthhandler "galleria/internal/health/handler"
	locationhandler "galleria/internal/locations/handler"
	locationrepo "galleria/internal/locations/repository"
	locationservice "galleria/internal/locations/service"
	locationvalidator "galleria/internal/locations/validator"
	reportinghandler "galleria/internal/reporting/handler"
	reportingservice "galleria/internal/reporting/service"
	"galleria/pkg/app"
	"galleria/pkg/client"
	"galleria/pkg/config"
	"galleria/pkg/contracts"
	"galleria/pkg/kafka"
	kafka_config "galleria/pkg/kafka/config"
	kafkamiddleware "galleria/pkg/kafka/middleware"
	"galleria/pkg/logger"
)

const ServiceName = "gallery"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(ServiceName)
	if err != nil {
		panic(err)
	}

	log := initLogger(cfg)
	log.Info("Starting gallery service")
	cfg.LogConfiguration(log.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	mongoClient, err := client.NewMongoClient(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err, "uri", cfg.MongoURI)
	}
	defer func() {
		if err := client.Disconnect(mongoClient, cfg); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	producer := initProducer(cfg, log)
	if producer != nil {
		defer producer.Close()
	}

	handlers := initHandlers(cfg, mongoClient, producer, log)
	healthHandler := healthhandler.NewHealthHandler(mongoClient, log)

	app.NewApplication(cfg, log, healthHandler, handlers...).Run()
}

func initLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   ServiceName,
	})
}

// initProducer builds the Kafka producer when brokers are configured. The
// service runs fine without one: exhibition events are then skipped.
func initProducer(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if !cfg.EventsEnabled() {
		log.Info("Kafka brokers not configured, exhibition events disabled")
		return nil
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaTopic)
	if err != nil {
		log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(log))

	log.Info("Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	return producer
}

// initHandlers wires repositories, validators and services into HTTP
// handlers. The exhibition repository doubles as the reference counter for
// artwork and location deletion guards, and the exhibition service backs the
// location availability and schedule endpoints.
func initHandlers(cfg *config.Config, mongoClient *mongo.Client, producer *kafka.Producer, log *logger.Logger) []contracts.Handler {
	exhibitionRepo := exhibitionrepo.NewMongoExhibitionRepository(mongoClient, cfg)
	lockRepo := exhibitionrepo.NewSlotLockRepository(mongoClient, cfg)
	artworkRepo := artworkrepo.NewMongoArtworkRepository(mongoClient, cfg)
	locationRepo := locationrepo.NewMongoLocationRepository(mongoClient, cfg)

	artworkService := artworkservice.NewArtworkService(
		artworkRepo,
		exhibitionRepo,
		artworkvalidator.NewArtworkValidator(log),
		log,
	)
	locationService := locationservice.NewLocationService(
		locationRepo,
		exhibitionRepo,
		locationvalidator.NewLocationValidator(log),
		log,
	)

	var events exhibitionservice.EventPublisher
	if producer != nil {
		events = exhibitionservice.NewKafkaEventPublisher(producer, ServiceName)
	}

	exhibitionService := exhibitionservice.NewExhibitionService(
		exhibitionRepo,
		lockRepo,
		exhibitionvalidator.NewExhibitionValidator(log),
		artworkService,
		locationService,
		events,
		cfg,
		log,
	)

	statsService := reportingservice.NewStatsService(artworkRepo, locationRepo, exhibitionRepo, log)

	log.Info("Gallery services initialized")

	return []contracts.Handler{
		exhibitionhandler.NewExhibitionHandler(exhibitionService, log),
		artworkhandler.NewArtworkHandler(artworkService, log),
		locationhandler.NewLocationHandler(locationService, exhibitionService, log),
		reportinghandler.NewStatsHandler(statsService, log),
	}
}
