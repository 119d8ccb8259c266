package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/service/catalog"
	"github.com/vladislavdragonenkov/showroom/internal/service/fulfillment"
)

// Полный сценарий продажи через собранные зависимости: регистрация участников,
// наполнение каталога, оформление заказа и его удаление.
func TestOrderLifecycleOnMemoryStorage(t *testing.T) {
	deps, err := NewDependencies(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)
	defer deps.Close()

	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.UserStatusActive}

	salesmanUser, err := deps.UsersSvc.Register("salesman@showroom.test")
	require.NoError(t, err)
	salesmanUser, err = deps.UsersSvc.UpdateRole(admin, salesmanUser.Email, domain.RoleSalesman)
	require.NoError(t, err)
	salesman := domain.ActorFromUser(salesmanUser)

	customer, err := deps.UsersSvc.Register("customer@showroom.test")
	require.NoError(t, err)

	model, err := deps.CatalogSvc.CreateCarModel(admin, catalog.CreateCarModelInput{
		Name: "Solaris", MakeYear: 2024, Manufacturer: "Hyundai", PriceMinor: 2000000,
	})
	require.NoError(t, err)
	category, err := deps.CatalogSvc.CreateOptionCategory(admin, "Comfort")
	require.NoError(t, err)
	option, err := deps.CatalogSvc.CreateOption(admin, model.ID, category.ID, catalog.CreateOptionInput{
		Name: "Sunroof", PriceMinor: 50000,
	})
	require.NoError(t, err)

	result, err := deps.Fulfillment.CreateOrder(salesman, fulfillment.CreateOrderInput{
		VIN:                "XTA210990Y1234567",
		RegistrationNumber: "A123BC777",
		InsurancePolicy:    "INS-0001",
		CarModelID:         model.ID,
		OwnerID:            customer.ID,
		OptionIDs:          []string{option.ID},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2050000), result.Order.TotalPriceMinor)
	require.Empty(t, result.Skipped)

	// Клиент видит свой заказ и свою машину.
	customerActor := domain.ActorFromUser(customer)
	order, err := deps.OrdersSvc.GetByID(customerActor, result.Order.ID)
	require.NoError(t, err)
	require.Equal(t, customer.ID, order.CustomerID)

	car, err := deps.CarsSvc.GetByVIN(customerActor, "XTA210990Y1234567")
	require.NoError(t, err)
	require.Len(t, car.Options, 1)

	// Удаление заказа освобождает идентификаторы машины.
	require.NoError(t, deps.OrdersSvc.Delete(salesman, order.ID))
	_, err = deps.CarsSvc.GetByVIN(salesman, "XTA210990Y1234567")
	require.True(t, domain.IsNotFound(err), "car must be gone after order delete, got %v", err)
}
