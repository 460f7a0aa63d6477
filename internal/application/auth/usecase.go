// Package auth implementa registro y login de usuarios con bcrypt y JWT.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/application/validate"
	"github.com/tu-usuario/almacen-escolar/internal/domain"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
	"github.com/tu-usuario/almacen-escolar/internal/domain/repository"
	"github.com/tu-usuario/almacen-escolar/pkg/config"
	"github.com/tu-usuario/almacen-escolar/pkg/jwt"
	"github.com/tu-usuario/almacen-escolar/pkg/logger"
	"github.com/tu-usuario/almacen-escolar/pkg/textutil"
)

// Usecase registro y autenticación de usuarios.
type Usecase struct {
	users  repository.UserRepository
	jwtCfg config.JWTConfig
	log    *logger.Logger
}

// New construye el caso de uso.
func New(users repository.UserRepository, jwtCfg config.JWTConfig, log *logger.Logger) *Usecase {
	return &Usecase{users: users, jwtCfg: jwtCfg, log: log}
}

// Register da de alta un usuario. La contraseña se guarda con bcrypt y el
// nombre se capitaliza de forma explícita antes de persistir (no hay hooks
// implícitos al guardar).
func (uc *Usecase) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := uc.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Name:         textutil.Capitalize(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, err
	}

	uc.log.Info().Str("user_id", u.ID).Str("role", u.Role).Msg("usuario registrado")

	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// Login valida credenciales y emite un JWT con user_id y role. Cualquier
// fallo de credenciales responde igual (ErrUnauthorized) para no filtrar si
// el email existe.
func (uc *Usecase) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, domain.ErrUnauthorized
	}
	if !u.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.Expiration)
	if err != nil {
		return nil, err
	}

	// Mejor esfuerzo: el login no falla si no se pudo anotar el acceso.
	if err := uc.users.UpdateLastAccess(ctx, u.ID, time.Now()); err != nil {
		uc.log.Warn().Err(err).Str("user_id", u.ID).Msg("no se pudo actualizar el último acceso")
	}

	return &dto.LoginResponse{Token: token, User: dto.NewUserResponse(u)}, nil
}
