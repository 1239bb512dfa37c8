package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dario-aloisi/gestionale-ordini/internal/service"
)

type StatisticheHandler struct{ svc service.StatisticheService }

func NewStatisticheHandler(svc service.StatisticheService) *StatisticheHandler {
	return &StatisticheHandler{svc: svc}
}

func (h *StatisticheHandler) Riepilogo(c *gin.Context) {
	resp, err := h.svc.Riepilogo(c.Request.Context())
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StatisticheHandler) Attivita(c *gin.Context) {
	resp, err := h.svc.Attivita(c.Request.Context())
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StatisticheHandler) Fatturato(c *gin.Context) {
	resp, err := h.svc.Fatturato(c.Request.Context())
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
