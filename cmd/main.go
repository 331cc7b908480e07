package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"sqlscope/backend/internal/agent"
	"sqlscope/backend/internal/handler"
	"sqlscope/backend/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment")
	}

	timeout := queryTimeout()

	databasesFile := os.Getenv("DATABASES_FILE")
	if databasesFile == "" {
		databasesFile = "databases.json"
	}
	reg, err := registry.Load(databasesFile, timeout)
	if err != nil {
		log.Fatalf("loading database registry: %v", err)
	}
	defer reg.Close()

	var generator agent.Generator
	if url := os.Getenv("AGENT_URL"); url != "" {
		generator = agent.NewClient(url, os.Getenv("AGENT_API_KEY"), agentModel())
	} else {
		log.Println("AGENT_URL not set, natural-language queries disabled")
	}

	handler.Init(reg, generator)

	r := gin.Default()

	r.GET("/ping", handler.Ping)
	r.GET("/databases", handler.ListDatabasesHandler)
	r.GET("/tables", handler.ListTablesHandler)
	r.GET("/schema", handler.TableSchemaHandler)

	r.POST("/deep-query", handler.DeepQueryHandler)
	r.POST("/nl-query", handler.NLQueryHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func queryTimeout() time.Duration {
	raw := os.Getenv("QUERY_TIMEOUT_SECONDS")
	if raw == "" {
		return 0 // gateway default
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Printf("ignoring invalid QUERY_TIMEOUT_SECONDS=%q\n", raw)
		return 0
	}
	return time.Duration(secs) * time.Second
}

func agentModel() string {
	if m := os.Getenv("AGENT_MODEL"); m != "" {
		return m
	}
	return "gpt-4o-mini"
}
