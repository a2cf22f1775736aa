package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/savannah/pkg/response"
)

// HealthController answers liveness probes.
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Check reports service and database health.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
