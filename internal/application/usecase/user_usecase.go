package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/domain"
	"github.com/jhoicas/inventario-admin/internal/domain/access"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
	"github.com/jhoicas/inventario-admin/pkg/password"
)

// UserUseCase aplica las reglas de jerarquía de roles sobre las cuentas.
// Toda mutación corre en una transacción que primero toma el lock de cuentas, de modo que
// los conteos usados por las reglas no cambian entre la decisión y la escritura.
type UserUseCase struct {
	tx     AccountTxRunner
	repo   repository.UserRepository
	hasher PasswordHasher
}

// NewUserUseCase construye el caso de uso. repo se usa solo para lecturas fuera de transacción.
func NewUserUseCase(tx AccountTxRunner, repo repository.UserRepository, hasher PasswordHasher) *UserUseCase {
	return &UserUseCase{tx: tx, repo: repo, hasher: hasher}
}

// Create crea una cuenta. Rol vacío = STAFF, Active nil = true.
func (uc *UserUseCase) Create(ctx context.Context, req access.Requester, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.RoleStaff
	if strings.TrimSpace(in.Role) != "" {
		r, ok := entity.ParseRole(in.Role)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		role = r
	}
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	var created *entity.User
	err = uc.tx.RunAccounts(ctx, func(users repository.UserRepository) error {
		if err := users.LockAccounts(ctx); err != nil {
			return err
		}
		superAdmins, err := users.CountByRole(ctx, entity.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if d := access.AuthorizeCreate(req, role, superAdmins > 0); !d.Allowed() {
			return d.Err()
		}
		if err := ensureUnique(ctx, users, username, email); err != nil {
			return err
		}
		now := time.Now()
		user := &entity.User{
			ID:           uuid.New().String(),
			Username:     username,
			Email:        email,
			FullName:     strings.TrimSpace(in.FullName),
			PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
			PasswordHash: hash,
			Role:         role,
			Active:       active,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(created), nil
}

// Update aplica una actualización parcial. Un cambio de rol pasa por AuthorizeRoleChange;
// el resto de campos por AuthorizeAccountMutation.
func (uc *UserUseCase) Update(ctx context.Context, req access.Requester, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var next *entity.Role
	if in.Role != nil {
		r, ok := entity.ParseRole(*in.Role)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		next = &r
	}
	var newHash string
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.ErrInvalidInput
		}
		h, err := uc.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		newHash = h
	}

	var updated *entity.User
	err := uc.tx.RunAccounts(ctx, func(users repository.UserRepository) error {
		if err := users.LockAccounts(ctx); err != nil {
			return err
		}
		user, err := users.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if next != nil && *next != user.Role {
			if err := authorizeRoleChange(ctx, users, req, user.Role, *next); err != nil {
				return err
			}
			user.Role = *next
		} else if d := access.AuthorizeAccountMutation(req, user.Role); !d.Allowed() {
			return d.Err()
		}

		if in.Username != nil {
			username := strings.TrimSpace(*in.Username)
			if username == "" {
				return domain.ErrInvalidInput
			}
			if username != user.Username {
				exists, err := users.ExistsByUsername(ctx, username)
				if err != nil {
					return err
				}
				if exists {
					return domain.NewConflict("username")
				}
				user.Username = username
			}
		}
		if in.Email != nil {
			if err := applyEmail(ctx, users, user, *in.Email); err != nil {
				return err
			}
		}
		if in.FullName != nil {
			user.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.PhoneNumber != nil {
			user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
		}
		if in.Active != nil {
			user.Active = *in.Active
		}
		if newHash != "" {
			user.PasswordHash = newHash
		}
		user.UpdatedAt = time.Now()
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

// ChangeRole cambia solo el rol de la cuenta. Un no-op siempre se permite.
func (uc *UserUseCase) ChangeRole(ctx context.Context, req access.Requester, id, role string) (*dto.UserResponse, error) {
	next, ok := entity.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.User
	err := uc.tx.RunAccounts(ctx, func(users repository.UserRepository) error {
		if err := users.LockAccounts(ctx); err != nil {
			return err
		}
		user, err := users.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if user.Role == next {
			updated = user
			return nil
		}
		if err := authorizeRoleChange(ctx, users, req, user.Role, next); err != nil {
			return err
		}
		user.Role = next
		user.UpdatedAt = time.Now()
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

// Delete elimina una cuenta. La regla del último admin se evalúa antes que la del solicitante,
// por eso se reporta aunque el solicitante tampoco tenga permiso.
func (uc *UserUseCase) Delete(ctx context.Context, req access.Requester, id string) error {
	return uc.tx.RunAccounts(ctx, func(users repository.UserRepository) error {
		if err := users.LockAccounts(ctx); err != nil {
			return err
		}
		user, err := users.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		admins, err := users.CountByRole(ctx, entity.RoleAdmin)
		if err != nil {
			return err
		}
		if d := access.GuardLastAdmin(user.Role, admins); !d.Allowed() {
			return d.Err()
		}
		if d := access.AuthorizeDelete(req, user.Role); !d.Allowed() {
			return d.Err()
		}
		return users.Delete(ctx, user.ID)
	})
}

// ToggleStatus invierte el estado activo/inactivo de la cuenta.
func (uc *UserUseCase) ToggleStatus(ctx context.Context, req access.Requester, id string) (*dto.UserResponse, error) {
	var updated *entity.User
	err := uc.tx.RunAccounts(ctx, func(users repository.UserRepository) error {
		user, err := users.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d := access.AuthorizeAccountMutation(req, user.Role); !d.Allowed() {
			return d.Err()
		}
		user.Active = !user.Active
		user.UpdatedAt = time.Now()
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

// ResetPassword asigna una contraseña temporal aleatoria y la devuelve una única vez.
func (uc *UserUseCase) ResetPassword(ctx context.Context, req access.Requester, id string) (*dto.ResetPasswordResponse, error) {
	plain, err := password.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}
	err = uc.tx.RunAccounts(ctx, func(users repository.UserRepository) error {
		user, err := users.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if d := access.AuthorizeAccountMutation(req, user.Role); !d.Allowed() {
			return d.Err()
		}
		user.PasswordHash = hash
		user.UpdatedAt = time.Now()
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ResetPasswordResponse{UserID: id, TemporaryPassword: plain}, nil
}

// UpdateProfile autoservicio: el usuario autenticado edita nombre, email y teléfono.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, in dto.ProfileUpdateRequest) (*dto.UserResponse, error) {
	var updated *entity.User
	err := uc.tx.RunAccounts(ctx, func(users repository.UserRepository) error {
		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if in.Email != nil {
			if err := applyEmail(ctx, users, user, *in.Email); err != nil {
				return err
			}
		}
		if in.FullName != nil {
			user.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.PhoneNumber != nil {
			user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
		}
		user.UpdatedAt = time.Now()
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(updated), nil
}

// GetByID obtiene una cuenta por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Account devuelve la cuenta vigente tal como está en el store (rol y estado actuales).
func (uc *UserUseCase) Account(ctx context.Context, id string) (*entity.User, error) {
	return uc.repo.GetByID(ctx, id)
}

// List devuelve todas las cuentas, más recientes primero.
func (uc *UserUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// ListByRole filtra por rol.
func (uc *UserUseCase) ListByRole(ctx context.Context, role string) ([]dto.UserResponse, error) {
	r, ok := entity.ParseRole(role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	users, err := uc.repo.ListByRole(ctx, r)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// Stats cuenta cuentas por rol y estado.
func (uc *UserUseCase) Stats(ctx context.Context) (*dto.UserStatsResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := &dto.UserStatsResponse{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case entity.RoleSuperAdmin:
			stats.SuperAdmins++
		case entity.RoleAdmin:
			stats.Admins++
		case entity.RoleStaff:
			stats.Staff++
		}
		if u.Active {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	return stats, nil
}

// authorizeRoleChange lee la existencia de otro super admin en la transacción y aplica la regla.
func authorizeRoleChange(ctx context.Context, users repository.UserRepository, req access.Requester, current, next entity.Role) error {
	superAdmins, err := users.CountByRole(ctx, entity.RoleSuperAdmin)
	if err != nil {
		return err
	}
	// Si la cuenta ya es el super admin, no cuenta como "otro".
	if current == entity.RoleSuperAdmin {
		superAdmins--
	}
	if d := access.AuthorizeRoleChange(req, current, next, superAdmins > 0); !d.Allowed() {
		return d.Err()
	}
	return nil
}

func ensureUnique(ctx context.Context, users repository.UserRepository, username, email string) error {
	exists, err := users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflict("username")
	}
	exists, err = users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflict("email")
	}
	return nil
}

func applyEmail(ctx context.Context, users repository.UserRepository, user *entity.User, raw string) error {
	email := normalizeEmail(raw)
	if email == "" {
		return domain.ErrInvalidInput
	}
	if email == user.Email {
		return nil
	}
	exists, err := users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewConflict("email")
	}
	user.Email = email
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FullName:        u.FullName,
		PhoneNumber:     u.PhoneNumber,
		Role:            string(u.Role),
		RoleDisplayName: u.Role.DisplayName(),
		Active:          u.Active,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toUserResponses(users []*entity.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out
}
