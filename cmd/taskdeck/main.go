package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/server"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/tui"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	backendFlag := flag.String("backend", "", "backend base URL")
	dbPathFlag := flag.String("db", "", "sqlite db path for the bundled backend")
	serveFlag := flag.Bool("serve", false, "run the bundled backend only, no TUI")
	localFlag := flag.Bool("local", false, "run the bundled backend and point the TUI at it")
	portFlag := flag.Int("port", 0, "bundled backend port")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	cfg = config.ApplyEnv(cfg)

	if *backendFlag != "" {
		cfg.BackendURL = *backendFlag
	}
	if *dbPathFlag != "" {
		cfg.ServeDBPath = *dbPathFlag
	}
	if cfg.ServeDBPath == "" {
		cfg.ServeDBPath = filepath.Join(filepath.Dir(cfgPath), "taskdeck.db")
	}
	if *portFlag != 0 {
		cfg.ServePort = *portFlag
	}
	if cfg.ServePort == 0 {
		cfg.ServePort = 8080
	}
	if cfg.SessionPath == "" {
		cfg.SessionPath = filepath.Join(filepath.Dir(cfgPath), "session.json")
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		log.Fatal(err)
	}

	if *serveFlag {
		handler, err := openBackend(cfg.ServeDBPath, true)
		if err != nil {
			log.Fatal(err)
		}
		addr := fmt.Sprintf(":%d", cfg.ServePort)
		log.Printf("Backend running at http://localhost%s", addr)
		log.Fatal(http.ListenAndServe(addr, handler))
	}

	if *localFlag {
		handler, err := openBackend(cfg.ServeDBPath, false)
		if err != nil {
			log.Fatal(err)
		}
		// Bind before the TUI dials so the first fetch can't race the server.
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", cfg.ServePort))
		if err != nil {
			log.Fatal(err)
		}
		cfg.BackendURL = "http://" + listener.Addr().String()
		go func() {
			if err := http.Serve(listener, handler); err != nil {
				log.Printf("backend error: %v", err)
			}
		}()
	}

	if cfg.BackendURL == "" {
		log.Fatal("no backend URL configured: set backend_url in the config, TASKDECK_BACKEND_URL, or pass -backend (or use -local)")
	}

	client := api.NewClient(cfg.BackendURL)
	sessions := session.NewStore(cfg.SessionPath)

	if err := tui.Run(client, sessions); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func openBackend(dbPath string, accessLog bool) (http.Handler, error) {
	if err := config.EnsureDir(dbPath); err != nil {
		return nil, err
	}

	sqlDB, err := server.Open(dbPath)
	if err != nil {
		return nil, err
	}

	srv := server.NewServer(server.NewStore(sqlDB))
	srv.AccessLog = accessLog
	return srv.Handler(), nil
}
