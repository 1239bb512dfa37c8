package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dario-aloisi/gestionale-ordini/internal/apierror"
	"github.com/dario-aloisi/gestionale-ordini/internal/infra"
)

type SystemHandler struct {
	artifacts *infra.Artifacts
}

func NewSystemHandler(artifacts *infra.Artifacts) *SystemHandler {
	return &SystemHandler{artifacts: artifacts}
}

// Backup copies the database file into the backup directory and reports the
// resulting filename.
func (h *SystemHandler) Backup(c *gin.Context) {
	dst, err := h.artifacts.BackupDatabase(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Backup non riuscito"))
		log.Error().Err(err).Msg("backup database")
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": filepath.Base(dst)})
}

// Shutdown answers first, then signals the process after a short delay so the
// response reaches the client before the graceful-shutdown path runs.
func (h *SystemHandler) Shutdown(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"detail": "Arresto in corso"})

	go func() {
		time.Sleep(500 * time.Millisecond)
		p, err := os.FindProcess(os.Getpid())
		if err != nil {
			log.Error().Err(err).Msg("shutdown: find process")
			return
		}
		if err := p.Signal(syscall.SIGINT); err != nil {
			log.Error().Err(err).Msg("shutdown: signal")
		}
	}()
}
