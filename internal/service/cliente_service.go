package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/model"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

type ClienteService interface {
	Crea(ctx context.Context, req dto.CreaClienteRequest) (*dto.ClienteResponse, error)
	Lista(ctx context.Context) ([]dto.ClienteResponse, error)
	Trova(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Aggiorna(ctx context.Context, id uuid.UUID, req dto.AggiornaClienteRequest) (*dto.ClienteResponse, error)
	Elimina(ctx context.Context, id uuid.UUID) error
	Storico(ctx context.Context, id uuid.UUID) ([]dto.StoricoProdottoResponse, error)
	Suggerimenti(ctx context.Context, id uuid.UUID) (*dto.SuggerimentiResponse, error)
}

type clienteService struct {
	repo   repository.ClienteRepository
	ordini repository.OrdineRepository
}

func NewClienteService(repo repository.ClienteRepository, ordini repository.OrdineRepository) ClienteService {
	return &clienteService{repo: repo, ordini: ordini}
}

func (s *clienteService) Crea(ctx context.Context, req dto.CreaClienteRequest) (*dto.ClienteResponse, error) {
	if err := s.verificaCodiceLibero(ctx, req.Codice, uuid.Nil); err != nil {
		return nil, err
	}
	c := model.Cliente{
		Codice: req.Codice,
		Nome:   req.Nome,
		Note:   req.Note,
		Attivo: true,
	}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	return clienteToResponse(&c), nil
}

func (s *clienteService) Lista(ctx context.Context) ([]dto.ClienteResponse, error) {
	clienti, err := s.repo.ListAttivi(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clienti))
	for i := range clienti {
		out = append(out, *clienteToResponse(&clienti[i]))
	}
	return out, nil
}

func (s *clienteService) Trova(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.trovaAttivo(ctx, id)
	if err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Aggiorna(ctx context.Context, id uuid.UUID, req dto.AggiornaClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.trovaAttivo(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Codice != nil && *req.Codice != c.Codice {
		if err := s.verificaCodiceLibero(ctx, *req.Codice, id); err != nil {
			return nil, err
		}
		c.Codice = *req.Codice
	}
	if req.Nome != nil {
		c.Nome = *req.Nome
	}
	if req.Note != nil {
		c.Note = req.Note
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

// Elimina soft-deletes: the row survives with Attivo=false, a retired code and
// a marked name, so historical order lines keep their reference and the code
// frees up for reuse.
func (s *clienteService) Elimina(ctx context.Context, id uuid.UUID) error {
	c, err := s.trovaAttivo(ctx, id)
	if err != nil {
		return err
	}
	c.Attivo = false
	c.Codice = RetireCode(c.Codice, time.Now())
	c.Nome = RetireName(c.Nome)
	return s.repo.Update(ctx, c)
}

func (s *clienteService) Storico(ctx context.Context, id uuid.UUID) ([]dto.StoricoProdottoResponse, error) {
	if _, err := s.trovaAttivo(ctx, id); err != nil {
		return nil, err
	}
	righe, err := s.ordini.StoricoCliente(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoricoProdottoResponse, 0, len(righe))
	for _, r := range righe {
		prezzo, err := s.ordini.UltimoPrezzo(ctx, id, r.ProdottoID, r.UltimaData)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err != nil {
			prezzo = decimal.Zero
		}
		out = append(out, dto.StoricoProdottoResponse{
			ProdottoID:     r.ProdottoID.String(),
			Codice:         r.Codice,
			Nome:           r.Nome,
			QuantitaTotale: r.TotalePezzi,
			UltimaConsegna: r.UltimaData.Format("2006-01-02"),
			UltimoPrezzo:   prezzo,
		})
	}
	return out, nil
}

func (s *clienteService) Suggerimenti(ctx context.Context, id uuid.UUID) (*dto.SuggerimentiResponse, error) {
	if _, err := s.trovaAttivo(ctx, id); err != nil {
		return nil, err
	}
	mappa, err := s.ordini.Suggerimenti(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.SuggerimentiResponse{Suggerimenti: mappa}, nil
}

func (s *clienteService) trovaAttivo(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNonTrovato
	}
	if err != nil {
		return nil, err
	}
	if !c.Attivo {
		return nil, ErrNonTrovato
	}
	return c, nil
}

// verificaCodiceLibero pre-flights the uniqueness check; the index on codice
// still backs it against races.
func (s *clienteService) verificaCodiceLibero(ctx context.Context, codice string, salvo uuid.UUID) error {
	codici, err := s.repo.MappaCodici(ctx)
	if err != nil {
		return err
	}
	if id, presente := codici[codice]; presente && id != salvo {
		return &CodiceDuplicatoError{Codice: codice}
	}
	return nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:     c.ID.String(),
		Codice: c.Codice,
		Nome:   c.Nome,
		Note:   c.Note,
		Attivo: c.Attivo,
	}
}
