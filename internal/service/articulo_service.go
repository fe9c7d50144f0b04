package service

import (
	"context"
	"errors"
	"fmt"

	"blendwms/internal/dto"
	"blendwms/internal/model"
	"blendwms/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticuloService administra el catálogo de artículos y depósitos. Las
// cantidades del artículo son derivadas: acá sólo se crean y consultan
// registros, nunca se tocan los contadores.
type ArticuloService interface {
	Crear(ctx context.Context, req dto.CrearArticuloRequest) (*dto.ArticuloResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ArticuloResponse, error)
	Listar(ctx context.Context, filter dto.ArticuloFilter) (*dto.ArticuloListResponse, error)

	CrearDeposito(ctx context.Context, req dto.CrearDepositoRequest) (*dto.DepositoResponse, error)
	ListarDepositos(ctx context.Context) ([]dto.DepositoResponse, error)
}

type articuloService struct {
	articuloRepo repository.ArticuloRepository
	depositoRepo repository.DepositoRepository
}

func NewArticuloService(articuloRepo repository.ArticuloRepository, depositoRepo repository.DepositoRepository) ArticuloService {
	return &articuloService{articuloRepo: articuloRepo, depositoRepo: depositoRepo}
}

func (s *articuloService) Crear(ctx context.Context, req dto.CrearArticuloRequest) (*dto.ArticuloResponse, error) {
	if _, err := s.articuloRepo.FindByNombre(ctx, req.Nombre); err == nil {
		return nil, fmt.Errorf("ya existe un articulo con nombre %q", req.Nombre)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a := &model.Articulo{
		Nombre:         req.Nombre,
		Unidad:         req.Unidad,
		PrecioUnitario: req.PrecioUnitario,
	}
	if err := s.articuloRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return articuloToResponse(a), nil
}

func (s *articuloService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ArticuloResponse, error) {
	a, err := s.articuloRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNoEncontrado
	}
	return articuloToResponse(a), nil
}

func (s *articuloService) Listar(ctx context.Context, filter dto.ArticuloFilter) (*dto.ArticuloListResponse, error) {
	repoFilter := repository.ArticuloFilter{
		Nombre: filter.Nombre,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	articulos, total, err := s.articuloRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	data := make([]dto.ArticuloResponse, 0, len(articulos))
	for i := range articulos {
		data = append(data, *articuloToResponse(&articulos[i]))
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return &dto.ArticuloListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *articuloService) CrearDeposito(ctx context.Context, req dto.CrearDepositoRequest) (*dto.DepositoResponse, error) {
	d := &model.Deposito{Codigo: req.Codigo, Nombre: req.Nombre}
	if err := s.depositoRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return depositoToResponse(d), nil
}

func (s *articuloService) ListarDepositos(ctx context.Context) ([]dto.DepositoResponse, error) {
	depositos, err := s.depositoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepositoResponse, 0, len(depositos))
	for i := range depositos {
		out = append(out, *depositoToResponse(&depositos[i]))
	}
	return out, nil
}

func articuloToResponse(a *model.Articulo) *dto.ArticuloResponse {
	return &dto.ArticuloResponse{
		ID:                a.ID.String(),
		Nombre:            a.Nombre,
		Unidad:            a.Unidad,
		Cantidad:          a.Cantidad,
		CantidadReservada: a.CantidadReservada,
		Disponible:        a.Disponible(),
		PrecioUnitario:    a.PrecioUnitario,
		CreatedAt:         a.CreatedAt,
	}
}

func depositoToResponse(d *model.Deposito) *dto.DepositoResponse {
	return &dto.DepositoResponse{
		ID:     d.ID.String(),
		Codigo: d.Codigo,
		Nombre: d.Nombre,
	}
}
