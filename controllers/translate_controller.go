package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anlan/pearlcms/utils"
)

// TranslateController proxies short text through the public translation
// endpoint so the admin UI can prefill English fields.
type TranslateController struct{}

// NewTranslateController creates a new TranslateController instance.
func NewTranslateController() *TranslateController {
	return &TranslateController{}
}

// Translate translates the given Chinese text to English.
func (t *TranslateController) Translate(ctx *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "text is required")
		return
	}

	translated, err := utils.Translate(req.Text)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "translation service unavailable")
		return
	}

	utils.Success(ctx, gin.H{"translatedText": translated})
}
