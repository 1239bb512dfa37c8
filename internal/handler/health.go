package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health probes the sqlite file and the draft store. A degraded draft store
// still allows browsing orders, but preview/finalize would fail, so both count.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		database := "ok"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			database = "errore"
		}

		bozze := "ok"
		if rdb.Ping(ctx).Err() != nil {
			bozze = "errore"
		}

		status := http.StatusOK
		if database != "ok" || bozze != "ok" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"database": database,
			"bozze":    bozze,
		})
	}
}
