package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dario-aloisi/gestionale-ordini/internal/dto"
	"github.com/dario-aloisi/gestionale-ordini/internal/model"
	"github.com/dario-aloisi/gestionale-ordini/internal/repository"
)

type ProdottoService interface {
	Crea(ctx context.Context, req dto.CreaProdottoRequest) (*dto.ProdottoResponse, error)
	Lista(ctx context.Context) ([]dto.ProdottoResponse, error)
	Trova(ctx context.Context, id uuid.UUID) (*dto.ProdottoResponse, error)
	Aggiorna(ctx context.Context, id uuid.UUID, req dto.AggiornaProdottoRequest) (*dto.ProdottoResponse, error)
	Elimina(ctx context.Context, id uuid.UUID) error
}

type prodottoService struct {
	repo repository.ProdottoRepository
}

func NewProdottoService(repo repository.ProdottoRepository) ProdottoService {
	return &prodottoService{repo: repo}
}

func (s *prodottoService) Crea(ctx context.Context, req dto.CreaProdottoRequest) (*dto.ProdottoResponse, error) {
	if err := s.verificaCodiceLibero(ctx, req.Codice, uuid.Nil); err != nil {
		return nil, err
	}
	p := model.Prodotto{
		Codice:      req.Codice,
		Nome:        req.Nome,
		Ingredienti: req.Ingredienti,
		Prezzo:      req.Prezzo,
		Attivo:      true,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return prodottoToResponse(&p), nil
}

func (s *prodottoService) Lista(ctx context.Context) ([]dto.ProdottoResponse, error) {
	prodotti, err := s.repo.ListAttivi(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProdottoResponse, 0, len(prodotti))
	for i := range prodotti {
		out = append(out, *prodottoToResponse(&prodotti[i]))
	}
	return out, nil
}

func (s *prodottoService) Trova(ctx context.Context, id uuid.UUID) (*dto.ProdottoResponse, error) {
	p, err := s.trovaAttivo(ctx, id)
	if err != nil {
		return nil, err
	}
	return prodottoToResponse(p), nil
}

func (s *prodottoService) Aggiorna(ctx context.Context, id uuid.UUID, req dto.AggiornaProdottoRequest) (*dto.ProdottoResponse, error) {
	p, err := s.trovaAttivo(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Codice != nil && *req.Codice != p.Codice {
		if err := s.verificaCodiceLibero(ctx, *req.Codice, id); err != nil {
			return nil, err
		}
		p.Codice = *req.Codice
	}
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Ingredienti != nil {
		p.Ingredienti = req.Ingredienti
	}
	if req.Prezzo != nil {
		// Price changes never touch existing order lines: those carry
		// their own snapshot.
		p.Prezzo = *req.Prezzo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return prodottoToResponse(p), nil
}

func (s *prodottoService) Elimina(ctx context.Context, id uuid.UUID) error {
	p, err := s.trovaAttivo(ctx, id)
	if err != nil {
		return err
	}
	p.Attivo = false
	p.Codice = RetireCode(p.Codice, time.Now())
	p.Nome = RetireName(p.Nome)
	return s.repo.Update(ctx, p)
}

func (s *prodottoService) trovaAttivo(ctx context.Context, id uuid.UUID) (*model.Prodotto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNonTrovato
	}
	if err != nil {
		return nil, err
	}
	if !p.Attivo {
		return nil, ErrNonTrovato
	}
	return p, nil
}

func (s *prodottoService) verificaCodiceLibero(ctx context.Context, codice string, salvo uuid.UUID) error {
	prodotti, err := s.repo.PerCodice(ctx)
	if err != nil {
		return err
	}
	if p, presente := prodotti[codice]; presente && p.ID != salvo {
		return &CodiceDuplicatoError{Codice: codice}
	}
	return nil
}

func prodottoToResponse(p *model.Prodotto) *dto.ProdottoResponse {
	return &dto.ProdottoResponse{
		ID:          p.ID.String(),
		Codice:      p.Codice,
		Nome:        p.Nome,
		Ingredienti: p.Ingredienti,
		Prezzo:      p.Prezzo,
		Attivo:      p.Attivo,
	}
}
