package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"reelmate_server/controllers"
	"reelmate_server/routes"
	"reelmate_server/services"
	"reelmate_server/socket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Pick the document store backend.
	var store services.DocumentStore
	if os.Getenv("STORE_BACKEND") == "memory" {
		log.Println("Using in-memory document store")
		store = services.NewMemoryStore()
	} else {
		log.Println("Initializing DynamoDB client...")
		dynamoClient := services.InitializeDynamoDBClient()
		store = services.NewDynamoStore(&services.DynamoService{Client: dynamoClient})
		log.Println("DynamoDB client initialized.")
	}

	// Match events are published only when a broker is configured.
	var events *services.EventPublisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		events = &services.EventPublisher{URL: url}
	}

	// Redis-backed catalog cache, optional.
	var catalogCache *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		catalogCache = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	}

	// Initialize Services
	sessionService := &services.SessionService{Store: store}
	swipeService := &services.SwipeService{Store: store, Events: events}
	friendService := &services.FriendService{Store: store}
	userProfileService := &services.UserProfileService{Store: store}
	catalogService := &services.CatalogService{
		APIKey: os.Getenv("TMDB_API_KEY"),
		Cache:  catalogCache,
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")

	// Realtime gateway
	socketServer := socket.NewSocketServer(sessionService)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Register authenticated API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(routes.AuthMiddleware(jwtSecret))
	routes.RegisterSessionRoutes(api, sessionService, swipeService)
	routes.RegisterFriendRoutes(api, friendService)
	routes.RegisterUserProfileRoutes(api, userProfileService)
	routes.RegisterCatalogRoutes(api, catalogService)

	if s3Service, err := services.NewS3Service(); err != nil {
		log.Printf("Avatar media routes disabled: %v", err)
	} else {
		routes.RegisterS3Routes(api, s3Service, userProfileService)
	}

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
