package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/service"
)

type ClientiHandler struct{ svc service.ClienteService }

func NewClientiHandler(svc service.ClienteService) *ClientiHandler {
	return &ClientiHandler{svc: svc}
}

func (h *ClientiHandler) Crea(c *gin.Context) {
	var req dto.CreaClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crea(c.Request.Context(), req)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClientiHandler) Lista(c *gin.Context) {
	resp, err := h.svc.Lista(c.Request.Context())
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientiHandler) Trova(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Trova(c.Request.Context(), id)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientiHandler) Aggiorna(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AggiornaClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Aggiorna(c.Request.Context(), id, req)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientiHandler) Elimina(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Elimina(c.Request.Context(), id); err != nil {
		rispondiErrore(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ClientiHandler) Storico(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Storico(c.Request.Context(), id)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClientiHandler) Suggerimenti(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Suggerimenti(c.Request.Context(), id)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
