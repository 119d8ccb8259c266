package cars

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
	"github.com/vladislavdragonenkov/showroom/internal/service/fulfillment"
)

// Service — чтение и patch-обновление машин. Создание машин происходит только
// внутри workflow оформления заказа.
type Service struct {
	cars   domain.CarRepository
	users  domain.UserRepository
	gate   *auth.Gate
	unique *fulfillment.UniquenessValidator
	logger *log.Entry

	producer *kafka.Producer // опциональный producer для событий машин
}

// NewService создаёт сервис машин.
func NewService(
	cars domain.CarRepository,
	users domain.UserRepository,
	gate *auth.Gate,
	unique *fulfillment.UniquenessValidator,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "cars")
	}
	return &Service{cars: cars, users: users, gate: gate, unique: unique, logger: logger}
}

// NewServiceWithKafka создаёт сервис машин, публикующий события обновлений в Kafka.
func NewServiceWithKafka(
	cars domain.CarRepository,
	users domain.UserRepository,
	gate *auth.Gate,
	unique *fulfillment.UniquenessValidator,
	producer *kafka.Producer,
	logger *log.Entry,
) *Service {
	s := NewService(cars, users, gate, unique, logger)
	s.producer = producer
	return s
}

// GetByID возвращает машину; клиент видит только собственную.
func (s *Service) GetByID(actor domain.Actor, carID string) (domain.Car, error) {
	car, err := s.cars.Get(carID)
	if err != nil {
		return domain.Car{}, err
	}
	if err := s.gate.Authorize(actor, auth.ActionReadCar, car.OwnerID); err != nil {
		return domain.Car{}, err
	}
	return car, nil
}

// GetByVIN возвращает машину по VIN; клиент видит только собственную.
func (s *Service) GetByVIN(actor domain.Actor, vin string) (domain.Car, error) {
	return s.getChecked(actor, func() (domain.Car, error) { return s.cars.GetByVIN(vin) })
}

// GetByRegistrationNumber возвращает машину по регистрационному номеру.
func (s *Service) GetByRegistrationNumber(actor domain.Actor, registrationNumber string) (domain.Car, error) {
	return s.getChecked(actor, func() (domain.Car, error) {
		return s.cars.GetByRegistrationNumber(registrationNumber)
	})
}

// GetByInsurancePolicy возвращает машину по страховому полису.
func (s *Service) GetByInsurancePolicy(actor domain.Actor, insurancePolicy string) (domain.Car, error) {
	return s.getChecked(actor, func() (domain.Car, error) {
		return s.cars.GetByInsurancePolicy(insurancePolicy)
	})
}

func (s *Service) getChecked(actor domain.Actor, fetch func() (domain.Car, error)) (domain.Car, error) {
	car, err := fetch()
	if err != nil {
		return domain.Car{}, err
	}
	if err := s.gate.Authorize(actor, auth.ActionReadCar, car.OwnerID); err != nil {
		return domain.Car{}, err
	}
	return car, nil
}

// List возвращает все машины; клиент получает только свои.
func (s *Service) List(actor domain.Actor) ([]domain.Car, error) {
	if err := s.gate.Authorize(actor, auth.ActionReadCar, actor.ID); err != nil {
		return nil, err
	}
	if s.gate.ScopeToOwn(actor) {
		return s.cars.ListByOwner(actor.ID)
	}
	return s.cars.List()
}

// ListByCarModel возвращает машины модели; клиент получает только свои.
func (s *Service) ListByCarModel(actor domain.Actor, carModelID string) ([]domain.Car, error) {
	if err := s.gate.Authorize(actor, auth.ActionReadCar, actor.ID); err != nil {
		return nil, err
	}
	cars, err := s.cars.ListByCarModel(carModelID)
	if err != nil {
		return nil, err
	}
	if !s.gate.ScopeToOwn(actor) {
		return cars, nil
	}
	own := make([]domain.Car, 0, len(cars))
	for _, car := range cars {
		if car.OwnerID == actor.ID {
			own = append(own, car)
		}
	}
	return own, nil
}

// UpdateInput — patch-обновление машины; nil-поле означает «не менять».
type UpdateInput struct {
	VIN                *string
	RegistrationNumber *string
	InsurancePolicy    *string
	OwnerID            *string
}

// Update применяет patch к машине. Меняющиеся идентификаторы перепроверяются
// на уникальность среди всех остальных машин (self-exclusion по ID).
func (s *Service) Update(actor domain.Actor, carID string, in UpdateInput) (domain.Car, error) {
	if err := s.gate.Authorize(actor, auth.ActionUpdateCar, ""); err != nil {
		return domain.Car{}, err
	}

	car, err := s.cars.Get(carID)
	if err != nil {
		return domain.Car{}, err
	}

	if in.RegistrationNumber != nil && *in.RegistrationNumber != car.RegistrationNumber {
		if err := s.unique.EnsureRegistrationAvailable(*in.RegistrationNumber, car.ID); err != nil {
			return domain.Car{}, err
		}
		car.RegistrationNumber = *in.RegistrationNumber
	}
	if in.InsurancePolicy != nil && *in.InsurancePolicy != car.InsurancePolicy {
		if err := s.unique.EnsureInsurancePolicyAvailable(*in.InsurancePolicy, car.ID); err != nil {
			return domain.Car{}, err
		}
		car.InsurancePolicy = *in.InsurancePolicy
	}
	if in.VIN != nil && *in.VIN != car.VIN {
		if err := s.unique.EnsureVINAvailable(*in.VIN, car.ID); err != nil {
			return domain.Car{}, err
		}
		car.VIN = *in.VIN
	}
	if in.OwnerID != nil && *in.OwnerID != car.OwnerID {
		owner, err := s.users.Get(*in.OwnerID)
		if err != nil {
			return domain.Car{}, err
		}
		car.OwnerID = owner.ID
	}

	car.UpdatedAt = time.Now().UTC()
	if err := s.cars.Save(car); err != nil {
		return domain.Car{}, err
	}

	s.logger.WithFields(log.Fields{
		"car_id":   car.ID,
		"actor_id": actor.ID,
	}).Info("car updated")

	if s.producer != nil {
		event := kafka.NewCarEvent(kafka.EventTypeCarUpdated, car.ID, car.OwnerID, nil)
		if err := s.producer.PublishCarEvent(event); err != nil {
			s.logger.WithError(err).WithField("car_id", car.ID).Warn("failed to publish car updated event")
		}
	}

	return s.cars.Get(car.ID)
}
