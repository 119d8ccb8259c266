package users

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
)

// Service управляет учётными записями: создание, роли, деактивация.
// Пароли, токены и вход в систему — вне этого сервиса.
type Service struct {
	users  domain.UserRepository
	gate   *auth.Gate
	logger *log.Entry
}

// NewService создаёт сервис пользователей.
func NewService(users domain.UserRepository, gate *auth.Gate, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "users")
	}
	return &Service{users: users, gate: gate, logger: logger}
}

// Register создаёт активную учётную запись с ролью CUSTOMER.
func (s *Service) Register(email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, domain.BadRequestf("email is required")
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      domain.RoleCustomer,
		Status:    domain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(user); err != nil {
		return domain.User{}, err
	}

	s.logger.WithFields(log.Fields{
		"user_id": user.ID,
	}).Info("user registered")

	return user, nil
}

// GetByID возвращает пользователя; клиент видит только себя.
func (s *Service) GetByID(actor domain.Actor, userID string) (domain.User, error) {
	if err := s.gate.Authorize(actor, auth.ActionReadUser, userID); err != nil {
		return domain.User{}, err
	}
	return s.users.Get(userID)
}

// UpdateRole меняет роль пользователя по адресу почты.
func (s *Service) UpdateRole(actor domain.Actor, email string, role domain.Role) (domain.User, error) {
	if err := s.gate.Authorize(actor, auth.ActionManageUsers, ""); err != nil {
		return domain.User{}, err
	}
	switch role {
	case domain.RoleAdmin, domain.RoleSalesman, domain.RoleCustomer:
	default:
		return domain.User{}, domain.BadRequestf("unknown role %q", role)
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Save(user); err != nil {
		return domain.User{}, err
	}

	s.logger.WithFields(log.Fields{
		"user_id":  user.ID,
		"role":     role,
		"actor_id": actor.ID,
	}).Info("user role updated")

	return user, nil
}

// Deactivate переводит учётную запись в INACTIVE (soft delete).
func (s *Service) Deactivate(actor domain.Actor, userID string) error {
	if err := s.gate.Authorize(actor, auth.ActionManageUsers, ""); err != nil {
		return err
	}

	user, err := s.users.Get(userID)
	if err != nil {
		return err
	}
	if user.Status == domain.UserStatusInactive {
		return domain.AccessDeniedf("account %s is already deactivated", userID)
	}

	user.Status = domain.UserStatusInactive
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Save(user); err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"user_id":  userID,
		"actor_id": actor.ID,
	}).Info("user deactivated")

	return nil
}

// Reactivate возвращает деактивированную учётную запись в ACTIVE.
func (s *Service) Reactivate(actor domain.Actor, userID string) (domain.User, error) {
	if err := s.gate.Authorize(actor, auth.ActionManageUsers, ""); err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Get(userID)
	if err != nil {
		return domain.User{}, err
	}
	if user.Status == domain.UserStatusActive {
		return domain.User{}, domain.AccessDeniedf("account %s is already active", userID)
	}

	user.Status = domain.UserStatusActive
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Save(user); err != nil {
		return domain.User{}, err
	}

	s.logger.WithFields(log.Fields{
		"user_id":  userID,
		"actor_id": actor.ID,
	}).Info("user reactivated")

	return user, nil
}
