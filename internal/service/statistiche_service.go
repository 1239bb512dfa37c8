package service

import (
	"context"
	"time"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

// giorniDormienza: an active client with no delivery in this window (or no
// delivery at all) shows up in the dormant list.
const giorniDormienza = 30

const (
	limiteClassificaAttivita  = 5
	limiteClassificaFatturato = 10
)

type StatisticheService interface {
	Riepilogo(ctx context.Context) (*dto.RiepilogoStatisticheResponse, error)
	Attivita(ctx context.Context) (*dto.AttivitaResponse, error)
	Fatturato(ctx context.Context) (*dto.FatturatoResponse, error)
}

type statisticheService struct {
	stats    repository.StatisticheRepository
	clienti  repository.ClienteRepository
	prodotti repository.ProdottoRepository
	ordini   repository.OrdineRepository
}

func NewStatisticheService(
	stats repository.StatisticheRepository,
	clienti repository.ClienteRepository,
	prodotti repository.ProdottoRepository,
	ordini repository.OrdineRepository,
) StatisticheService {
	return &statisticheService{stats: stats, clienti: clienti, prodotti: prodotti, ordini: ordini}
}

func (s *statisticheService) Riepilogo(ctx context.Context) (*dto.RiepilogoStatisticheResponse, error) {
	clienti, err := s.clienti.CountAttivi(ctx)
	if err != nil {
		return nil, err
	}
	prodotti, err := s.prodotti.CountAttivi(ctx)
	if err != nil {
		return nil, err
	}
	adesso := time.Now()
	ordini, err := s.ordini.CountNelMese(ctx, adesso.Year(), adesso.Month())
	if err != nil {
		return nil, err
	}
	return &dto.RiepilogoStatisticheResponse{
		ClientiAttivi:  clienti,
		ProdottiAttivi: prodotti,
		OrdiniDelMese:  ordini,
	}, nil
}

func (s *statisticheService) Attivita(ctx context.Context) (*dto.AttivitaResponse, error) {
	topProdotti, err := s.stats.TopProdottiPerQuantita(ctx, limiteClassificaAttivita)
	if err != nil {
		return nil, err
	}
	topClienti, err := s.stats.TopClientiPerQuantita(ctx, limiteClassificaAttivita)
	if err != nil {
		return nil, err
	}
	mensili, err := s.stats.QuantitaMensili(ctx)
	if err != nil {
		return nil, err
	}
	consegne, err := s.stats.UltimeConsegne(ctx)
	if err != nil {
		return nil, err
	}

	soglia := time.Now().AddDate(0, 0, -giorniDormienza)
	dormienti := make([]dto.ClienteDormienteResponse, 0)
	for _, c := range consegne {
		if c.Data != nil && c.Data.After(soglia) {
			continue
		}
		d := dto.ClienteDormienteResponse{ID: c.ClienteID.String(), Nome: c.Nome}
		if c.Data != nil {
			ultima := c.Data.Format("2006-01-02")
			d.UltimaConsegna = &ultima
		}
		dormienti = append(dormienti, d)
	}

	return &dto.AttivitaResponse{
		TopProdotti:      classificaToResponse(topProdotti),
		TopClienti:       classificaToResponse(topClienti),
		QuantitaMensili:  mensileToResponse(mensili),
		ClientiDormienti: dormienti,
	}, nil
}

func (s *statisticheService) Fatturato(ctx context.Context) (*dto.FatturatoResponse, error) {
	mensile, err := s.stats.FatturatoMensile(ctx)
	if err != nil {
		return nil, err
	}
	topClienti, err := s.stats.TopClientiPerFatturato(ctx, limiteClassificaFatturato)
	if err != nil {
		return nil, err
	}
	topProdotti, err := s.stats.TopProdottiPerFatturato(ctx, limiteClassificaFatturato)
	if err != nil {
		return nil, err
	}
	return &dto.FatturatoResponse{
		Mensile:     mensileToResponse(mensile),
		TopClienti:  classificaToResponse(topClienti),
		TopProdotti: classificaToResponse(topProdotti),
	}, nil
}

func classificaToResponse(voci []repository.VoceClassifica) []dto.VoceClassificaResponse {
	out := make([]dto.VoceClassificaResponse, 0, len(voci))
	for _, v := range voci {
		out = append(out, dto.VoceClassificaResponse{Nome: v.Nome, Valore: v.Totale})
	}
	return out
}

func mensileToResponse(voci []repository.VoceMensile) []dto.VoceMensileResponse {
	out := make([]dto.VoceMensileResponse, 0, len(voci))
	for _, v := range voci {
		out = append(out, dto.VoceMensileResponse{Mese: v.Mese, Valore: v.Totale})
	}
	return out
}
