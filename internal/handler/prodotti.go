package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/service"
)

type ProdottiHandler struct{ svc service.ProdottoService }

func NewProdottiHandler(svc service.ProdottoService) *ProdottiHandler {
	return &ProdottiHandler{svc: svc}
}

func (h *ProdottiHandler) Crea(c *gin.Context) {
	var req dto.CreaProdottoRequest
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

func (h *ProdottiHandler) Lista(c *gin.Context) {
	resp, err := h.svc.Lista(c.Request.Context())
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProdottiHandler) Trova(c *gin.Context) {
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

func (h *ProdottiHandler) Aggiorna(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AggiornaProdottoRequest
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

func (h *ProdottiHandler) Elimina(c *gin.Context) {
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
