package usecase

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/access"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/pkg/logger"
	"github.com/jhoicas/inventario-admin/pkg/password"
)

// AccountSeed datos de una cuenta por defecto. Password vacío genera uno temporal.
type AccountSeed struct {
	Username string
	Email    string
	FullName string
	Password string
}

// BootstrapAccounts cuentas que se siembran al arrancar.
type BootstrapAccounts struct {
	SuperAdmin AccountSeed
	Admin      AccountSeed
}

// Bootstrap siembra el super admin (si no existe ninguno) y el admin por defecto (si su username
// no existe). Corre con el solicitante System y es idempotente.
func (uc *UserUseCase) Bootstrap(ctx context.Context, log *logger.Logger, seeds BootstrapAccounts) error {
	if err := uc.seed(ctx, log, seeds.SuperAdmin, entity.RoleSuperAdmin); err != nil {
		return err
	}
	return uc.seed(ctx, log, seeds.Admin, entity.RoleAdmin)
}

func (uc *UserUseCase) seed(ctx context.Context, log *logger.Logger, s AccountSeed, role entity.Role) error {
	if s.Username == "" {
		return nil
	}
	if _, err := uc.repo.GetByUsername(ctx, s.Username); err == nil {
		log.Debug().Str("username", s.Username).Msg("bootstrap: cuenta ya existe")
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	plain := s.Password
	generated := plain == ""
	if generated {
		p, err := password.Generate()
		if err != nil {
			return err
		}
		plain = p
	}
	_, err := uc.Create(ctx, access.System(), dto.CreateUserRequest{
		Username: s.Username,
		Email:    s.Email,
		FullName: s.FullName,
		Password: plain,
		Role:     string(role),
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateSuperAdmin), errors.Is(err, domain.ErrConflict):
		log.Info().Str("username", s.Username).Str("role", string(role)).Err(err).Msg("bootstrap: cuenta omitida")
		return nil
	case err != nil:
		return err
	}
	if generated {
		log.Warn().Str("username", s.Username).Str("role", string(role)).Str("temporary_password", plain).
			Msg("bootstrap: cuenta creada con contraseña temporal, cámbiela")
		return nil
	}
	log.Info().Str("username", s.Username).Str("role", string(role)).Msg("bootstrap: cuenta creada")
	return nil
}
