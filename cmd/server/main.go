// Package main provides the caltib calendar API HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.caltib.dev/caltib/internal/api"
	httpHandler "go.caltib.dev/caltib/internal/http"
)

const version = "0.1.0"

func main() {
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("caltib-server version %s\n", version)
		return
	}

	port := getEnv("PORT", "8080")
	originsEnv := getEnv("CORS_ALLOWED_ORIGINS", "")
	var origins []string
	if originsEnv != "" {
		origins = strings.Split(originsEnv, ",")
	}

	log.Printf("Starting caltib calendar API server...")
	log.Printf("Port: %s", port)

	a := api.New()
	log.Printf("Registered engines: %s", strings.Join(a.ListEngines(), ", "))

	router := httpHandler.SetupRouter(a, origins)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/healthz", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/engines")
	log.Printf("  - GET /v1/day")
	log.Printf("  - GET /v1/gregorian")
	log.Printf("  - GET /v1/new-year")
	log.Printf("  - GET /v1/month")
	log.Printf("  - GET /v1/explain")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("caltib Calendar API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  caltib-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /healthz          Health check")
	fmt.Println("  GET /v1/engines       List registered calendar engines")
	fmt.Println("  GET /v1/day           Resolve a Gregorian date to its Tibetan label")
	fmt.Println("  GET /v1/gregorian     Resolve a Tibetan label to Gregorian date(s)")
	fmt.Println("  GET /v1/new-year      First civil day of a Tibetan year")
	fmt.Println("  GET /v1/month         Civil bounds of a Tibetan month")
	fmt.Println("  GET /v1/explain       Debug dump of a day resolution")
	fmt.Println()
}
