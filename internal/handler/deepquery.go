package handler

import (
	"fmt"
	"log"
	"net/http"

	"sqlscope/backend/internal/engine"
	"sqlscope/backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeepQueryHandler executes an ordered chain of database operations and
// returns one result slot per operation. Malformed requests are rejected
// before anything runs; execution failures come back as data inside the
// chain result, never as an HTTP error.
func DeepQueryHandler(c *gin.Context) {
	var req model.DeepQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if len(req.Operations) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Operations list must not be empty"})
		return
	}
	for i, op := range req.Operations {
		if err := op.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("operation %d: %s", i, err.Error())})
			return
		}
	}

	session, db, err := sessionFor(req.DatabaseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestID := uuid.NewString()
	log.Printf("deep-query %s: %d operations on database %d\n", requestID, len(req.Operations), req.DatabaseID)

	chain := engine.New(session).Run(c.Request.Context(), req.Operations)

	c.JSON(http.StatusOK, model.DeepQueryResponse{
		RequestID:   requestID,
		Database:    db,
		ChainResult: chain,
	})
}
