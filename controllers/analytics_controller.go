package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/anlan/pearlcms/models"
	"github.com/anlan/pearlcms/utils"
)

// AnalyticsController records raw page views and aggregates them on read.
type AnalyticsController struct {
	db *gorm.DB
}

// NewAnalyticsController creates a new AnalyticsController instance.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{db: db}
}

// Track appends a page view event. It always reports success to the client;
// analytics must never break page rendering.
func (a *AnalyticsController) Track(ctx *gin.Context) {
	var req struct {
		Path      string  `json:"path"`
		VisitorID *string `json:"visitor_id"`
		Referrer  string  `json:"referrer"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Success(ctx, gin.H{"message": "ok"})
		return
	}

	if req.Path == "" {
		req.Path = "/"
	}

	var referrer *string
	if r := truncate(req.Referrer, 500); r != "" {
		referrer = &r
	}

	view := models.PageView{
		PagePath:  truncate(req.Path, 255),
		VisitorID: req.VisitorID,
		IPAddress: ctx.ClientIP(),
		UserAgent: truncate(ctx.GetHeader("User-Agent"), 500),
		Referrer:  referrer,
	}
	if err := a.db.Create(&view).Error; err != nil {
		utils.Sugar.Warnf("failed to record page view: %v", err)
	}

	utils.Success(ctx, gin.H{"message": "ok"})
}

type pageCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

type dailyStat struct {
	Date string `json:"date"`
	PV   int64  `json:"pv"`
}

// GetStats aggregates the raw event log into the dashboard figures. Week
// boundaries start on Monday; daily stats cover the last seven days oldest
// first, labelled "MM-DD".
func (a *AnalyticsController) GetStats(ctx *gin.Context) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekOffset := (int(now.Weekday()) + 6) % 7
	weekStart := todayStart.AddDate(0, 0, -weekOffset)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var todayPV, todayUV, weekPV, monthPV, totalPV int64
	a.db.Model(&models.PageView{}).Where("created_at >= ?", todayStart).Count(&todayPV)
	a.db.Model(&models.PageView{}).
		Where("created_at >= ? AND visitor_id IS NOT NULL", todayStart).
		Distinct("visitor_id").Count(&todayUV)
	a.db.Model(&models.PageView{}).Where("created_at >= ?", weekStart).Count(&weekPV)
	a.db.Model(&models.PageView{}).Where("created_at >= ?", monthStart).Count(&monthPV)
	a.db.Model(&models.PageView{}).Count(&totalPV)

	var topPages []pageCount
	if err := a.db.Model(&models.PageView{}).
		Select("page_path AS path, COUNT(*) AS count").
		Group("page_path").
		Order("count DESC").
		Limit(5).
		Scan(&topPages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to aggregate stats")
		return
	}
	if topPages == nil {
		topPages = []pageCount{}
	}

	dailyStats := make([]dailyStat, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := todayStart.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		var pv int64
		a.db.Model(&models.PageView{}).
			Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
			Count(&pv)
		dailyStats = append(dailyStats, dailyStat{Date: dayStart.Format("01-02"), PV: pv})
	}

	utils.Success(ctx, gin.H{
		"todayPV":    todayPV,
		"todayUV":    todayUV,
		"weekPV":     weekPV,
		"monthPV":    monthPV,
		"totalPV":    totalPV,
		"topPages":   topPages,
		"dailyStats": dailyStats,
	})
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}
