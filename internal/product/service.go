// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/panelcatalog/internal/core"
)

const tracerName = "panelcatalog/product"

type Service struct {
	repo      Repository
	validator *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: core.NewValidator(),
	}
}

func (s *Service) List(ctx context.Context, enabledOnly bool) ([]Product, error) {
	return s.repo.List(ctx, enabledOnly)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req ProductRequest,
) (_ *Product, err error) {
	ctx, span := core.StartSpan(ctx, tracerName, "product.Create",
		attribute.String("product.id", req.ID),
	)
	defer func() {
		if err != nil {
			core.SetSpanError(ctx, err)
		}
		span.End()
	}()

	p, err := s.validated(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Update takes the id from the path verbatim, like Get, Toggle and Delete.
// Any id in the body is ignored.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req ProductRequest,
) (_ *Product, err error) {
	ctx, span := core.StartSpan(ctx, tracerName, "product.Update",
		attribute.String("product.id", id),
	)
	defer func() {
		if err != nil {
			core.SetSpanError(ctx, err)
		}
		span.End()
	}()

	p, err := s.validated(req, "ID")
	if err != nil {
		return nil, err
	}
	p.ID = id

	return s.repo.Update(ctx, p)
}

func (s *Service) Toggle(ctx context.Context, id string) (_ *Product, err error) {
	ctx, span := core.StartSpan(ctx, tracerName, "product.Toggle",
		attribute.String("product.id", id),
	)
	defer func() {
		if err != nil {
			core.SetSpanError(ctx, err)
		}
		span.End()
	}()

	p, err := s.repo.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("product.enabled", p.Enabled))
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := core.StartSpan(ctx, tracerName, "product.Delete",
		attribute.String("product.id", id),
	)
	defer func() {
		if err != nil {
			core.SetSpanError(ctx, err)
		}
		span.End()
	}()

	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// validated normalizes and validates req and returns the product to store.
// Validation failures come back as a VALIDATION_ERROR *core.AppError.
// Fields named in except are not validated.
func (s *Service) validated(req ProductRequest, except ...string) (*Product, error) {
	return validateRequest(s.validator, req, except...)
}

func validateRequest(
	v *validator.Validate,
	req ProductRequest,
	except ...string,
) (*Product, error) {
	req.Normalize()

	var err error
	if len(except) > 0 {
		err = v.StructExcept(req, except...)
	} else {
		err = v.Struct(req)
	}
	var fields []core.FieldError
	if err != nil {
		fields = core.FormatValidationError(err)
	}
	if req.thicknessInvalid {
		fields = slices.DeleteFunc(fields, func(f core.FieldError) bool {
			return f.Field == "thickness"
		})
		fields = append(fields, core.FieldError{
			Field:   "thickness",
			Message: "must be a whole number",
		})
	}
	if len(fields) > 0 {
		return nil, core.ValidationError(fields)
	}

	return req.ToProduct(), nil
}
