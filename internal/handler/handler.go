package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"sqlscope/backend/internal/agent"
	"sqlscope/backend/internal/gateway"
	"sqlscope/backend/internal/model"
	"sqlscope/backend/internal/registry"

	"github.com/gin-gonic/gin"
)

var (
	reg       *registry.Registry
	generator agent.Generator
)

// Init wires the boot-time dependencies.
func Init(r *registry.Registry, g agent.Generator) {
	reg = r
	generator = g
}

// sessionFor resolves a database id to a session and its descriptor.
// By default it goes through the registry, but can be overridden in tests.
var sessionFor = func(id int) (gateway.Session, model.DatabaseRef, error) {
	if reg == nil {
		return nil, model.DatabaseRef{}, errors.New("no database registry configured")
	}
	s, db, err := reg.Session(id)
	if err != nil {
		return nil, model.DatabaseRef{}, err
	}
	return s, model.DatabaseRef{ID: db.ID, Name: db.Name, Type: db.Type}, nil
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func ListDatabasesHandler(c *gin.Context) {
	if reg == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No database registry configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"databases": reg.List()})
}

func ListTablesHandler(c *gin.Context) {
	id, ok := databaseID(c)
	if !ok {
		return
	}

	session, _, err := sessionFor(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tables, err := session.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tables == nil {
		tables = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"tables": tables, "count": len(tables)})
}

func TableSchemaHandler(c *gin.Context) {
	id, ok := databaseID(c)
	if !ok {
		return
	}

	raw := c.Query("tables")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'tables' query parameter"})
		return
	}
	var tables []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty table list"})
		return
	}

	session, _, err := sessionFor(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schemas, err := session.DescribeTables(c.Request.Context(), tables)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"schemas": schemas})
}

func databaseID(c *gin.Context) (int, bool) {
	raw := c.Query("database_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'database_id' query parameter"})
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'database_id' query parameter"})
		return 0, false
	}
	return id, true
}
