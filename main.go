package main

import (
	"log"
	"net/http"
	"strings"

	"travelbuddy_server/routes"
	"travelbuddy_server/services"
	"travelbuddy_server/socket"

	"github.com/caarlos0/env/v6"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type appConfig struct {
	Port         string `env:"PORT" envDefault:"8080"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"*"`
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("zap.NewDevelopment: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := appConfig{}
	if err := env.Parse(&cfg); err != nil {
		sugar.Fatalf("Cannot parse env config: %v", err)
	}

	// Initialize DynamoDB client and service
	sugar.Info("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	sugar.Info("DynamoDB client initialized.")

	// Initialize services
	conversationService := services.NewConversationService(&services.DynamoConversationStore{Dynamo: dynamoService}, sugar)
	planService := services.NewPlanService(&services.DynamoPlanStore{Dynamo: dynamoService}, sugar)
	packageService := services.NewPackageService(&services.DynamoPackageStore{Dynamo: dynamoService}, sugar)
	buddyService := services.NewBuddyService(
		&services.DynamoBuddyRequestStore{Dynamo: dynamoService},
		&services.DynamoUserStore{Dynamo: dynamoService},
		planService,
		sugar,
	)
	placeService := services.NewPlaceService(&services.DynamoPlaceStore{Dynamo: dynamoService}, sugar)

	// Realtime broadcast router
	socketServer := socket.NewServer(sugar)
	go func() {
		if err := socketServer.IO.Serve(); err != nil {
			sugar.Fatalf("socket server: %v", err)
		}
	}()
	defer socketServer.IO.Close()

	// Initialize the router
	r := mux.NewRouter()
	r.Handle("/socket.io/", socketServer.IO)

	routes.RegisterRoutes(r)
	routes.RegisterChatRoutes(r, conversationService, socketServer, sugar)
	routes.RegisterBuddyRoutes(r, buddyService, sugar)
	routes.RegisterPlanRoutes(r, planService, sugar)
	routes.RegisterPackageRoutes(r, packageService, sugar)
	routes.RegisterPlaceRoutes(r, placeService, sugar)

	// Add CORS middleware
	allowedOrigins := []string{"*"}
	if cfg.ClientOrigin != "" && cfg.ClientOrigin != "*" {
		allowedOrigins = allowedOrigins[:0]
		for _, origin := range strings.Split(cfg.ClientOrigin, ",") {
			allowedOrigins = append(allowedOrigins, strings.TrimSpace(origin))
		}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-ID", "X-User-Name"},
		AllowCredentials: true,
	}).Handler(r)

	sugar.Infof("Starting server on port %s...", cfg.Port)
	sugar.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
