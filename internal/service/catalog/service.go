package catalog

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/showroom/internal/domain"
	"github.com/vladislavdragonenkov/showroom/internal/service/auth"
)

// Service управляет каталогом: моделями, категориями опций и опциями.
type Service struct {
	models     domain.CarModelRepository
	categories domain.OptionCategoryRepository
	options    domain.OptionRepository
	cars       domain.CarRepository
	gate       *auth.Gate
	logger     *log.Entry
}

// NewService создаёт сервис каталога. Репозиторий машин нужен только для
// проверки, что удаляемая модель не используется.
func NewService(
	models domain.CarModelRepository,
	categories domain.OptionCategoryRepository,
	options domain.OptionRepository,
	cars domain.CarRepository,
	gate *auth.Gate,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{
		models:     models,
		categories: categories,
		options:    options,
		cars:       cars,
		gate:       gate,
		logger:     logger,
	}
}

// CreateCarModelInput — поля новой модели.
type CreateCarModelInput struct {
	Name         string
	MakeYear     int
	Manufacturer string
	Image        string
	PriceMinor   int64
}

// CreateCarModel создаёт модель; пара (name, make_year) должна быть свободна.
func (s *Service) CreateCarModel(actor domain.Actor, in CreateCarModelInput) (domain.CarModel, error) {
	if err := s.gate.Authorize(actor, auth.ActionCreateCarModel, ""); err != nil {
		return domain.CarModel{}, err
	}
	if in.Name == "" {
		return domain.CarModel{}, domain.BadRequestf("car model name is required")
	}
	if in.PriceMinor < 0 {
		return domain.CarModel{}, domain.BadRequestf("car model price must be non-negative")
	}

	if _, err := s.models.GetByNameAndYear(in.Name, in.MakeYear); err == nil {
		return domain.CarModel{}, domain.Conflictf("car model %s of year %d", in.Name, in.MakeYear)
	} else if !domain.IsNotFound(err) {
		return domain.CarModel{}, err
	}

	now := time.Now().UTC()
	model := domain.CarModel{
		ID:           uuid.NewString(),
		Name:         in.Name,
		MakeYear:     in.MakeYear,
		Manufacturer: in.Manufacturer,
		Image:        in.Image,
		PriceMinor:   in.PriceMinor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.models.Create(model); err != nil {
		return domain.CarModel{}, err
	}

	s.logger.WithFields(log.Fields{
		"car_model_id": model.ID,
		"name":         model.Name,
		"make_year":    model.MakeYear,
	}).Info("car model created")

	return model, nil
}

// UpdateCarModelInput — patch-обновление модели; nil-поле означает «не менять».
type UpdateCarModelInput struct {
	Name         *string
	MakeYear     *int
	Manufacturer *string
	Image        *string
	PriceMinor   *int64
}

// UpdateCarModel применяет patch к модели. Смена имени или года выпуска
// перепроверяется на уникальность пары (name, make_year).
func (s *Service) UpdateCarModel(actor domain.Actor, id string, in UpdateCarModelInput) (domain.CarModel, error) {
	if err := s.gate.Authorize(actor, auth.ActionUpdateCarModel, ""); err != nil {
		return domain.CarModel{}, err
	}

	model, err := s.models.Get(id)
	if err != nil {
		return domain.CarModel{}, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return domain.CarModel{}, domain.BadRequestf("car model name is required")
		}
		model.Name = *in.Name
	}
	if in.MakeYear != nil {
		model.MakeYear = *in.MakeYear
	}
	if in.Manufacturer != nil {
		model.Manufacturer = *in.Manufacturer
	}
	if in.Image != nil {
		model.Image = *in.Image
	}
	if in.PriceMinor != nil {
		if *in.PriceMinor < 0 {
			return domain.CarModel{}, domain.BadRequestf("car model price must be non-negative")
		}
		model.PriceMinor = *in.PriceMinor
	}

	if in.Name != nil || in.MakeYear != nil {
		if existing, err := s.models.GetByNameAndYear(model.Name, model.MakeYear); err == nil && existing.ID != model.ID {
			return domain.CarModel{}, domain.Conflictf("car model %s of year %d", model.Name, model.MakeYear)
		} else if err != nil && !domain.IsNotFound(err) {
			return domain.CarModel{}, err
		}
	}

	model.UpdatedAt = time.Now().UTC()
	if err := s.models.Save(model); err != nil {
		return domain.CarModel{}, err
	}

	s.logger.WithFields(log.Fields{
		"car_model_id": model.ID,
		"actor_id":     actor.ID,
	}).Info("car model updated")

	return model, nil
}

// DeleteCarModel удаляет модель. Модель с проданными машинами или
// заведёнными опциями удалить нельзя.
func (s *Service) DeleteCarModel(actor domain.Actor, id string) error {
	if err := s.gate.Authorize(actor, auth.ActionDeleteCarModel, ""); err != nil {
		return err
	}

	model, err := s.models.Get(id)
	if err != nil {
		return err
	}

	cars, err := s.cars.ListByCarModel(model.ID)
	if err != nil {
		return err
	}
	if len(cars) > 0 {
		return domain.Conflictf("car model %s has registered cars", model.ID)
	}
	options, err := s.options.ListByCarModel(model.ID)
	if err != nil {
		return err
	}
	if len(options) > 0 {
		return domain.Conflictf("car model %s has configured options", model.ID)
	}

	if err := s.models.Delete(model.ID); err != nil {
		return err
	}

	s.logger.WithFields(log.Fields{
		"car_model_id": model.ID,
		"actor_id":     actor.ID,
	}).Info("car model deleted")

	return nil
}

// GetCarModel возвращает модель по идентификатору.
func (s *Service) GetCarModel(id string) (domain.CarModel, error) {
	return s.models.Get(id)
}

// ListCarModels возвращает все модели.
func (s *Service) ListCarModels() ([]domain.CarModel, error) {
	return s.models.List()
}

// ListCarModelsByManufacturer возвращает модели производителя.
func (s *Service) ListCarModelsByManufacturer(manufacturer string) ([]domain.CarModel, error) {
	return s.models.ListByManufacturer(manufacturer)
}

// ListCarModelsByMakeYearBetween возвращает модели с годом выпуска в диапазоне.
func (s *Service) ListCarModelsByMakeYearBetween(from, to int) ([]domain.CarModel, error) {
	return s.models.ListByMakeYearBetween(from, to)
}

// CreateOptionCategory создаёт категорию опций с уникальным именем.
func (s *Service) CreateOptionCategory(actor domain.Actor, name string) (domain.OptionCategory, error) {
	if err := s.gate.Authorize(actor, auth.ActionCreateOptionCategory, ""); err != nil {
		return domain.OptionCategory{}, err
	}
	if name == "" {
		return domain.OptionCategory{}, domain.BadRequestf("option category name is required")
	}

	if _, err := s.categories.GetByName(name); err == nil {
		return domain.OptionCategory{}, domain.Conflictf("option category %s", name)
	} else if !domain.IsNotFound(err) {
		return domain.OptionCategory{}, err
	}

	now := time.Now().UTC()
	category := domain.OptionCategory{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categories.Create(category); err != nil {
		return domain.OptionCategory{}, err
	}
	return category, nil
}

// UpdateOptionCategory переименовывает категорию; новое имя должно быть свободно.
func (s *Service) UpdateOptionCategory(actor domain.Actor, id, name string) (domain.OptionCategory, error) {
	if err := s.gate.Authorize(actor, auth.ActionUpdateOptionCategory, ""); err != nil {
		return domain.OptionCategory{}, err
	}
	if name == "" {
		return domain.OptionCategory{}, domain.BadRequestf("option category name is required")
	}

	category, err := s.categories.Get(id)
	if err != nil {
		return domain.OptionCategory{}, err
	}
	if existing, err := s.categories.GetByName(name); err == nil && existing.ID != category.ID {
		return domain.OptionCategory{}, domain.Conflictf("option category %s", name)
	} else if err != nil && !domain.IsNotFound(err) {
		return domain.OptionCategory{}, err
	}

	category.Name = name
	category.UpdatedAt = time.Now().UTC()
	if err := s.categories.Save(category); err != nil {
		return domain.OptionCategory{}, err
	}
	return category, nil
}

// DeleteOptionCategory удаляет категорию; категорию с опциями удалить нельзя.
func (s *Service) DeleteOptionCategory(actor domain.Actor, id string) error {
	if err := s.gate.Authorize(actor, auth.ActionDeleteOptionCategory, ""); err != nil {
		return err
	}

	category, err := s.categories.Get(id)
	if err != nil {
		return err
	}
	options, err := s.options.ListByCategory(category.ID)
	if err != nil {
		return err
	}
	if len(options) > 0 {
		return domain.Conflictf("option category %s has configured options", category.ID)
	}
	return s.categories.Delete(category.ID)
}

// ListOptionCategories возвращает все категории.
func (s *Service) ListOptionCategories() ([]domain.OptionCategory, error) {
	return s.categories.List()
}

// CreateOptionInput — поля новой опции.
type CreateOptionInput struct {
	Name       string
	PriceMinor int64
}

// CreateOption создаёт опцию для модели и категории; тройка (name, model, category)
// должна быть свободна.
func (s *Service) CreateOption(actor domain.Actor, carModelID, categoryID string, in CreateOptionInput) (domain.Option, error) {
	if err := s.gate.Authorize(actor, auth.ActionCreateOption, ""); err != nil {
		return domain.Option{}, err
	}
	if in.Name == "" {
		return domain.Option{}, domain.BadRequestf("option name is required")
	}
	if in.PriceMinor < 0 {
		return domain.Option{}, domain.BadRequestf("option price must be non-negative")
	}

	model, err := s.models.Get(carModelID)
	if err != nil {
		return domain.Option{}, err
	}
	category, err := s.categories.Get(categoryID)
	if err != nil {
		return domain.Option{}, err
	}

	if _, err := s.options.FindByNameModelCategory(in.Name, model.ID, category.ID); err == nil {
		return domain.Option{}, domain.Conflictf("option %s for car model %s and category %s", in.Name, model.ID, category.ID)
	} else if !domain.IsNotFound(err) {
		return domain.Option{}, err
	}

	now := time.Now().UTC()
	option := domain.Option{
		ID:               uuid.NewString(),
		Name:             in.Name,
		PriceMinor:       in.PriceMinor,
		CarModelID:       model.ID,
		OptionCategoryID: category.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.options.Create(option); err != nil {
		return domain.Option{}, err
	}

	s.logger.WithFields(log.Fields{
		"option_id":    option.ID,
		"car_model_id": model.ID,
		"category_id":  category.ID,
	}).Info("option created")

	return option, nil
}

// UpdateOption обновляет имя и цену опции в рамках её модели и категории.
func (s *Service) UpdateOption(actor domain.Actor, carModelID, categoryID, optionID string, in CreateOptionInput) (domain.Option, error) {
	if err := s.gate.Authorize(actor, auth.ActionUpdateOption, ""); err != nil {
		return domain.Option{}, err
	}

	option, err := s.options.Get(optionID)
	if err != nil {
		return domain.Option{}, err
	}
	if option.CarModelID != carModelID || option.OptionCategoryID != categoryID {
		return domain.Option{}, domain.NotFoundf("option %s for car model %s and category %s", optionID, carModelID, categoryID)
	}

	if in.Name != "" {
		option.Name = in.Name
	}
	if in.PriceMinor >= 0 {
		option.PriceMinor = in.PriceMinor
	}
	option.UpdatedAt = time.Now().UTC()

	if err := s.options.Save(option); err != nil {
		return domain.Option{}, err
	}
	return option, nil
}

// GetOption возвращает опцию по идентификатору.
func (s *Service) GetOption(optionID string) (domain.Option, error) {
	return s.options.Get(optionID)
}

// ListOptionsByCarModel возвращает опции модели.
func (s *Service) ListOptionsByCarModel(carModelID string) ([]domain.Option, error) {
	return s.options.ListByCarModel(carModelID)
}

// ListOptions возвращает опции модели в категории; пустой результат — ErrNotFound.
func (s *Service) ListOptions(carModelID, categoryID string) ([]domain.Option, error) {
	options, err := s.options.ListByCarModelAndCategory(carModelID, categoryID)
	if err != nil {
		return nil, err
	}
	if len(options) == 0 {
		return nil, domain.NotFoundf("options for car model %s and category %s", carModelID, categoryID)
	}
	return options, nil
}
