package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/service"
)

type OrdiniHandler struct{ svc service.OrdineService }

func NewOrdiniHandler(svc service.OrdineService) *OrdiniHandler {
	return &OrdiniHandler{svc: svc}
}

// Preview renders the submitted lines to a scratch PDF and parks the payload
// as a draft; nothing is persisted yet.
func (h *OrdiniHandler) Preview(c *gin.Context) {
	var req dto.PreviewOrdineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Preview(c.Request.Context(), req)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizza turns the draft behind the token into a persisted order, archives
// the PDF and mails it.
func (h *OrdiniHandler) Finalizza(c *gin.Context) {
	var req dto.FinalizzaOrdineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalizza(c.Request.Context(), req.Token)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdiniHandler) Lista(c *gin.Context) {
	resp, err := h.svc.Lista(c.Request.Context())
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdiniHandler) Dettaglio(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Dettaglio(c.Request.Context(), id)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdiniHandler) Aggiorna(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AggiornaOrdineRequest
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

func (h *OrdiniHandler) Elimina(c *gin.Context) {
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

// Excel re-renders a stored order as a spreadsheet into the Excel archive.
func (h *OrdiniHandler) Excel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Excel(c.Request.Context(), id)
	if err != nil {
		rispondiErrore(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
