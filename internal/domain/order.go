package domain

import "time"

// Order — запись о продаже: финальная конфигурация машины, клиент и продавец.
// Заказ владеет своей машиной: удаление заказа каскадно удаляет машину и её опции.
type Order struct {
	ID string
	// TotalPriceMinor — базовая цена модели плюс сумма цен установленных опций,
	// зафиксированная в момент создания и не пересчитываемая позже.
	TotalPriceMinor int64
	Car             Car
	CustomerID      string
	SalesmanID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
// modelPriceMinor и optionPrices — цены на момент создания заказа.
func (o *Order) ValidateInvariants(modelPriceMinor int64, optionPrices map[string]int64) []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.SalesmanID == "" {
		errs = append(errs, ErrSalesmanRequired)
	}
	if o.TotalPriceMinor < 0 {
		errs = append(errs, ErrTotalPriceNegative)
	}
	if o.Car.OwnerID != o.CustomerID {
		errs = append(errs, ErrCustomerNotOwner)
	}

	// Сверяем итог с базовой ценой модели и суммой цен опций.
	calc := modelPriceMinor
	seen := make(map[string]struct{}, len(o.Car.Options))
	for _, co := range o.Car.Options {
		if _, dup := seen[co.OptionID]; dup {
			errs = append(errs, ErrDuplicateCarOption)
			continue
		}
		seen[co.OptionID] = struct{}{}
		calc += optionPrices[co.OptionID]
	}
	if calc != o.TotalPriceMinor {
		errs = append(errs, ErrTotalPriceMismatch)
	}

	return errs
}
