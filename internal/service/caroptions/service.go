package caroptions

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
)

// Service — запросы по связям машина–опция. Связи создаются только внутри
// оформления заказа, поэтому здесь нет записи.
type Service struct {
	carOptions domain.CarOptionRepository
	cars       domain.CarRepository
	gate       *auth.Gate
	logger     *log.Entry
}

// NewService создаёт сервис запросов по установленным опциям.
func NewService(
	carOptions domain.CarOptionRepository,
	cars domain.CarRepository,
	gate *auth.Gate,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "car-options")
	}
	return &Service{carOptions: carOptions, cars: cars, gate: gate, logger: logger}
}

// GetByID возвращает связь; клиент видит только опции собственных машин.
func (s *Service) GetByID(actor domain.Actor, id string) (domain.CarOption, error) {
	link, err := s.carOptions.Get(id)
	if err != nil {
		return domain.CarOption{}, err
	}
	if err := s.authorizeForCar(actor, link.CarID); err != nil {
		return domain.CarOption{}, err
	}
	return link, nil
}

// FindByOptionAndCar возвращает связь по уникальной паре (option, car).
func (s *Service) FindByOptionAndCar(actor domain.Actor, optionID, carID string) (domain.CarOption, error) {
	link, err := s.carOptions.FindByOptionAndCar(optionID, carID)
	if err != nil {
		return domain.CarOption{}, err
	}
	if err := s.authorizeForCar(actor, link.CarID); err != nil {
		return domain.CarOption{}, err
	}
	return link, nil
}

// ListByCar возвращает опции, установленные на машине.
func (s *Service) ListByCar(actor domain.Actor, carID string) ([]domain.CarOption, error) {
	if err := s.authorizeForCar(actor, carID); err != nil {
		return nil, err
	}
	return s.carOptions.ListByCar(carID)
}

// ListByOption возвращает машины с указанной опцией; клиент получает только
// связи собственных машин.
func (s *Service) ListByOption(actor domain.Actor, optionID string) ([]domain.CarOption, error) {
	if err := s.gate.Authorize(actor, auth.ActionReadCarOption, actor.ID); err != nil {
		return nil, err
	}

	links, err := s.carOptions.ListByOption(optionID)
	if err != nil {
		return nil, err
	}
	if !s.gate.ScopeToOwn(actor) {
		return links, nil
	}

	own := make([]domain.CarOption, 0, len(links))
	for _, link := range links {
		car, err := s.cars.Get(link.CarID)
		if err != nil {
			return nil, err
		}
		if car.OwnerID == actor.ID {
			own = append(own, link)
		}
	}
	return own, nil
}

func (s *Service) authorizeForCar(actor domain.Actor, carID string) error {
	car, err := s.cars.Get(carID)
	if err != nil {
		return err
	}
	return s.gate.Authorize(actor, auth.ActionReadCarOption, car.OwnerID)
}
