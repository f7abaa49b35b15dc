package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/fieldfocus/punchlist_backend/chat"
	"bitbucket.org/fieldfocus/punchlist_backend/config"
	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

type chatCompletionRequest struct {
	Model    string         `json:"model"`
	Messages []chat.Message `json:"messages" binding:"required,min=1,dive"`
}

// chatCompletionsHandler forwards a conversation to the configured local
// model server and returns the reply verbatim.
func chatCompletionsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.chat == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "chat completions endpoint is not configured"})
			return
		}

		var req chatCompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, &utils.ValidationError{Msg: "invalid request body"})
			return
		}

		reply, err := a.chat.Complete(c.Request.Context(), req.Model, req.Messages)
		if err != nil {
			config.LogError(a.logger, "chat.go", "chatCompletionsHandler", "upstream completion", req.Model, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}
