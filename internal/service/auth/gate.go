package auth

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
)

// Action — операция, для которой запрашивается разрешение.
type Action string

const (
	ActionCreateOrder Action = "order.create"
	ActionReadOrder   Action = "order.read"
	ActionDeleteOrder Action = "order.delete"

	ActionReadCar   Action = "car.read"
	ActionUpdateCar Action = "car.update"

	ActionReadCarOption Action = "car_option.read"

	ActionCreateCarModel Action = "car_model.create"
	ActionUpdateCarModel Action = "car_model.update"
	ActionDeleteCarModel Action = "car_model.delete"

	ActionCreateOptionCategory Action = "option_category.create"
	ActionUpdateOptionCategory Action = "option_category.update"
	ActionDeleteOptionCategory Action = "option_category.delete"
	ActionCreateOption         Action = "option.create"
	ActionUpdateOption         Action = "option.update"

	ActionManageUsers Action = "user.manage"
	ActionReadUser    Action = "user.read"

	// Pre-auth действия доступны и деактивированным учётным записям.
	ActionResetPassword Action = "user.reset_password"
	ActionVerifyEmail   Action = "user.verify_email"
)

// decision — исход из таблицы политик.
type decision int

const (
	deny decision = iota
	allow
	// allowOwn разрешает операцию только над ресурсом, принадлежащим актору.
	allowOwn
)

// preAuthActions проверяются до оценки роли и статуса учётной записи.
var preAuthActions = map[Action]struct{}{
	ActionResetPassword: {},
	ActionVerifyEmail:   {},
}

// customerPolicy — единственная роль с ограничениями; ADMIN и SALESMAN
// разрешено всё. Отсутствие действия в таблице означает отказ.
var customerPolicy = map[Action]decision{
	ActionReadOrder:     allowOwn,
	ActionReadCar:       allowOwn,
	ActionReadCarOption: allowOwn,
	ActionReadUser:      allowOwn,
}

// Gate — единая точка проверки прав: таблица политик по (роль, действие, владение)
// вместо разрозненных сравнений ролей в каждом сервисном методе.
type Gate struct {
	logger *log.Entry
}

// NewGate создаёт gate с логированием отказов.
func NewGate(logger *log.Entry) *Gate {
	if logger == nil {
		logger = log.New().WithField("component", "auth-gate")
	}
	return &Gate{logger: logger}
}

// Authorize возвращает nil, если актору разрешено действие, иначе ErrAccessDenied.
// resourceOwnerID — владелец ресурса для ограниченных владением чтений; пустая
// строка означает, что операция не привязана к конкретному ресурсу.
func (g *Gate) Authorize(actor domain.Actor, action Action, resourceOwnerID string) error {
	if _, preAuth := preAuthActions[action]; preAuth {
		return nil
	}

	// Статус учётной записи проверяется до оценки роли.
	if actor.Status == domain.UserStatusInactive {
		g.logDenied(actor, action, "account deactivated")
		return domain.ErrAccountInactive
	}

	switch actor.Role {
	case domain.RoleAdmin, domain.RoleSalesman:
		return nil
	case domain.RoleCustomer:
		switch customerPolicy[action] {
		case allow:
			return nil
		case allowOwn:
			if resourceOwnerID != "" && resourceOwnerID == actor.ID {
				return nil
			}
			g.logDenied(actor, action, "resource owned by another user")
			return domain.AccessDeniedf("customer %s may only access own records", actor.ID)
		default:
			g.logDenied(actor, action, "action not permitted for role")
			return domain.AccessDeniedf("role %s is not permitted to perform %s", actor.Role, action)
		}
	default:
		g.logDenied(actor, action, "unknown role")
		return domain.AccessDeniedf("unknown role %q", actor.Role)
	}
}

// ScopeToOwn сообщает, должен ли листинг ограничиваться записями самого актора.
func (g *Gate) ScopeToOwn(actor domain.Actor) bool {
	return actor.Role == domain.RoleCustomer
}

func (g *Gate) logDenied(actor domain.Actor, action Action, reason string) {
	g.logger.WithFields(log.Fields{
		"actor_id": actor.ID,
		"role":     actor.Role,
		"action":   action,
		"reason":   reason,
	}).Debug("authorization denied")
}
