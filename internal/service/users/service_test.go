package users

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
	"github.com/vladislavdragonenkov/showroom/internal/storage/memory"
)

func newUsersService() (*Service, domain.UserRepository) {
	repo := memory.NewUserRepository()
	return NewService(repo, auth.NewGate(nil), nil), repo
}

var admin = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.UserStatusActive}

func TestRegister(t *testing.T) {
	svc, _ := newUsersService()

	user, err := svc.Register("new@showroom.test")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Errorf("new accounts must be customers, got %s", user.Role)
	}
	if user.Status != domain.UserStatusActive {
		t.Errorf("new accounts must be active, got %s", user.Status)
	}

	if _, err := svc.Register("new@showroom.test"); !domain.IsConflict(err) {
		t.Errorf("duplicate email must conflict, got %v", err)
	}
	if _, err := svc.Register(""); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("empty email must be a bad request, got %v", err)
	}
}

func TestGetByIDOwnership(t *testing.T) {
	svc, _ := newUsersService()
	user, err := svc.Register("c@showroom.test")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	actor := domain.ActorFromUser(user)

	if _, err := svc.GetByID(actor, user.ID); err != nil {
		t.Errorf("customer must read own account: %v", err)
	}
	if _, err := svc.GetByID(actor, "someone-else"); !domain.IsAccessDenied(err) {
		t.Errorf("customer must not read foreign account, got %v", err)
	}
	if _, err := svc.GetByID(admin, user.ID); err != nil {
		t.Errorf("admin must read any account: %v", err)
	}
}

func TestUpdateRole(t *testing.T) {
	svc, _ := newUsersService()
	user, err := svc.Register("c@showroom.test")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateRole(admin, user.Email, domain.RoleSalesman)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != domain.RoleSalesman {
		t.Errorf("expected SALESMAN, got %s", updated.Role)
	}

	if _, err := svc.UpdateRole(admin, user.Email, "SUPERVISOR"); err == nil {
		t.Error("unknown role must be rejected")
	}
	if _, err := svc.UpdateRole(admin, "missing@showroom.test", domain.RoleAdmin); !domain.IsNotFound(err) {
		t.Errorf("unknown email must be not found, got %v", err)
	}

	customerActor := domain.Actor{ID: "c1", Role: domain.RoleCustomer, Status: domain.UserStatusActive}
	if _, err := svc.UpdateRole(customerActor, user.Email, domain.RoleAdmin); !domain.IsAccessDenied(err) {
		t.Errorf("customer must not manage roles, got %v", err)
	}
}

func TestDeactivateAndReactivate(t *testing.T) {
	svc, repo := newUsersService()
	user, err := svc.Register("c@showroom.test")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Deactivate(admin, user.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	got, _ := repo.Get(user.ID)
	if got.Status != domain.UserStatusInactive {
		t.Errorf("expected INACTIVE, got %s", got.Status)
	}

	// Повторная деактивация — отказ.
	if err := svc.Deactivate(admin, user.ID); !domain.IsAccessDenied(err) {
		t.Errorf("double deactivation must be denied, got %v", err)
	}

	// Деактивированный актор не проходит gate.
	inactiveActor := domain.ActorFromUser(got)
	if _, err := svc.GetByID(inactiveActor, user.ID); !domain.IsAccessDenied(err) {
		t.Errorf("inactive account must be denied, got %v", err)
	}

	reactivated, err := svc.Reactivate(admin, user.ID)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if reactivated.Status != domain.UserStatusActive {
		t.Errorf("expected ACTIVE, got %s", reactivated.Status)
	}
	if _, err := svc.Reactivate(admin, user.ID); !domain.IsAccessDenied(err) {
		t.Errorf("reactivating active account must be denied, got %v", err)
	}
}
