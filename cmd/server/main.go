package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"ewaste-realm/server/api"
	"ewaste-realm/server/config"
	"ewaste-realm/server/handlers"
	"ewaste-realm/server/persistence"
	"ewaste-realm/server/services"
	"ewaste-realm/server/terrain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The browser client is served from a different origin in development
		return true
	},
}

func main() {
	cfg := config.Load()

	// Initialize database
	var db persistence.Storage
	var err error

	if cfg.DBType == "postgres" {
		db, err = persistence.NewPostgresStore(cfg.DatabaseURL)
		log.Println("Using PostgreSQL persistence")
	} else {
		db, err = persistence.NewJSONStore(cfg.DBFile)
		log.Println("Using JSON persistence")
	}

	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer db.Close()

	log.Println("Persistence initialized successfully")

	// Initialize services
	genCfg := terrain.DefaultConfig(cfg.MapRows, cfg.MapCols)
	genCfg.ObjectCount = cfg.ObjectCount

	levelManager := services.NewLevelManager(db, genCfg, cfg.TileSize)
	worldService, err := services.NewWorldService(levelManager, cfg.ViewRadius, cfg.MapSeed)
	if err != nil {
		log.Fatalf("Failed to initialize world: %v", err)
	}
	playerService := services.NewPlayerService(worldService, db, cfg.PlayerSpeed)
	clientManager := handlers.NewClientManager()

	// Set up HTTP routes
	r := chi.NewRouter()
	r.Mount("/api", api.NewAPIRouter(cfg, worldService))
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()

		// Handle client connection
		handlers.HandleClientConnection(conn, playerService, worldService, clientManager)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	log.Printf("Server starting on port %s (overworld %s)", cfg.Port, worldService.OverworldID())
	log.Fatal(srv.ListenAndServe())
}
