package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"sqlscope/backend/internal/export"
	"sqlscope/backend/internal/gateway"
	"sqlscope/backend/internal/model"
	"sqlscope/backend/internal/safety"
	"sqlscope/backend/internal/visual"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// schemaHintTableLimit caps how many table schemas are sent to the agent.
const schemaHintTableLimit = 10

// NLQueryHandler answers a natural-language question: the agent turns it
// into SQL, the safety validator gates it, the gateway runs it, and the
// result comes back with an auto-selected chart. format=csv streams the
// rows as a download instead.
func NLQueryHandler(c *gin.Context) {
	var req model.NLQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must not be empty"})
		return
	}
	if req.Format != "" && req.Format != "json" && req.Format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format: " + req.Format})
		return
	}
	if generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No SQL agent configured"})
		return
	}

	session, db, err := sessionFor(req.DatabaseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	hint := schemaHint(c, session)
	sql, err := generator.GenerateSQL(ctx, req.Question, hint)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "SQL generation failed: " + err.Error()})
		return
	}
	log.Printf("nl-query: generated SQL: %s\n", sql)

	if err := safety.Validate(sql); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "sql": sql})
		return
	}

	payload, err := session.RunSelect(ctx, sql)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "sql": sql})
		return
	}

	if req.Format == "csv" {
		c.Header("Content-Disposition", `attachment; filename="query_result.csv"`)
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := export.RenderCSV(c.Writer, payload); err != nil {
			log.Printf("nl-query: csv export failed: %v\n", err)
		}
		return
	}

	chart := visual.SelectChart(req.Question, payload)

	c.JSON(http.StatusOK, gin.H{
		"request_id":        uuid.NewString(),
		"database":          db,
		"question":          req.Question,
		"sql":               sql,
		"result":            payload,
		"chart":             chart,
		"execution_time_ms": time.Since(start).Milliseconds(),
	})
}

// schemaHint gathers schema text for up to schemaHintTableLimit tables so
// the agent sees what it can query. Failures here are not fatal; the
// agent just gets less context.
func schemaHint(c *gin.Context, session gateway.Session) string {
	ctx := c.Request.Context()
	tables, err := session.ListTables(ctx)
	if err != nil || len(tables) == 0 {
		return ""
	}
	if len(tables) > schemaHintTableLimit {
		tables = tables[:schemaHintTableLimit]
	}
	schemas, err := session.DescribeTables(ctx, tables)
	if err != nil {
		return strings.Join(tables, ", ")
	}

	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		parts = append(parts, schemas[t])
	}
	return strings.Join(parts, "\n\n")
}
