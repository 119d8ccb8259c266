package domain

import "time"

// UserRepository описывает требования к хранилищу учётных записей.
type UserRepository interface {
	// Create сохраняет нового пользователя; email уникален.
	Create(user User) error
	// Get возвращает пользователя по идентификатору или ErrNotFound.
	Get(id string) (User, error)
	// GetByEmail возвращает пользователя по адресу почты или ErrNotFound.
	GetByEmail(email string) (User, error)
	// Save перезаписывает существующего пользователя.
	Save(user User) error
	// List возвращает всех пользователей.
	List() ([]User, error)
}

// CarModelRepository описывает требования к хранилищу моделей.
type CarModelRepository interface {
	// Create сохраняет модель; пара (name, make_year) уникальна.
	Create(model CarModel) error
	// Get возвращает модель по идентификатору или ErrNotFound.
	Get(id string) (CarModel, error)
	// GetByNameAndYear возвращает модель по имени и году выпуска или ErrNotFound.
	GetByNameAndYear(name string, makeYear int) (CarModel, error)
	// List возвращает все модели.
	List() ([]CarModel, error)
	// ListByManufacturer возвращает модели указанного производителя.
	ListByManufacturer(manufacturer string) ([]CarModel, error)
	// ListByMakeYearBetween возвращает модели с годом выпуска в диапазоне [from, to].
	ListByMakeYearBetween(from, to int) ([]CarModel, error)
	// Save перезаписывает существующую модель.
	Save(model CarModel) error
	// Delete удаляет модель; ссылающиеся машины и опции проверяются на
	// уровне сервиса, хранилище возвращает ErrNotFound для отсутствующей.
	Delete(id string) error
}

// OptionCategoryRepository описывает требования к хранилищу категорий опций.
type OptionCategoryRepository interface {
	// Create сохраняет категорию; имя уникально.
	Create(category OptionCategory) error
	// Get возвращает категорию по идентификатору или ErrNotFound.
	Get(id string) (OptionCategory, error)
	// GetByName возвращает категорию по имени или ErrNotFound.
	GetByName(name string) (OptionCategory, error)
	// List возвращает все категории.
	List() ([]OptionCategory, error)
	// Save перезаписывает существующую категорию; имя остаётся уникальным.
	Save(category OptionCategory) error
	// Delete удаляет категорию или возвращает ErrNotFound.
	Delete(id string) error
}

// OptionRepository описывает требования к хранилищу опций.
type OptionRepository interface {
	// Create сохраняет опцию; тройка (name, car_model_id, option_category_id) уникальна.
	Create(option Option) error
	// Get возвращает опцию по идентификатору или ErrNotFound.
	Get(id string) (Option, error)
	// ListByCarModel возвращает опции указанной модели.
	ListByCarModel(carModelID string) ([]Option, error)
	// ListByCarModelAndCategory возвращает опции модели в указанной категории.
	ListByCarModelAndCategory(carModelID, categoryID string) ([]Option, error)
	// ListByCategory возвращает опции категории по всем моделям.
	ListByCategory(categoryID string) ([]Option, error)
	// FindByNameModelCategory ищет опцию по уникальной тройке или возвращает ErrNotFound.
	FindByNameModelCategory(name, carModelID, categoryID string) (Option, error)
	// Save перезаписывает существующую опцию.
	Save(option Option) error
}

// CarRepository описывает требования к хранилищу машин.
// Создание машин происходит только внутри агрегата заказа (OrderRepository.Create);
// здесь — чтение, проверки уникальности идентификаторов и patch-обновления.
type CarRepository interface {
	// Get возвращает машину с её опциями или ErrNotFound.
	Get(id string) (Car, error)
	// GetByVIN возвращает машину по VIN или ErrNotFound.
	GetByVIN(vin string) (Car, error)
	// GetByRegistrationNumber возвращает машину по регистрационному номеру или ErrNotFound.
	GetByRegistrationNumber(registrationNumber string) (Car, error)
	// GetByInsurancePolicy возвращает машину по страховому полису или ErrNotFound.
	GetByInsurancePolicy(insurancePolicy string) (Car, error)
	// ExistsByVIN сообщает, занят ли VIN.
	ExistsByVIN(vin string) (bool, error)
	// ExistsByRegistrationNumber сообщает, занят ли регистрационный номер.
	ExistsByRegistrationNumber(registrationNumber string) (bool, error)
	// ExistsByInsurancePolicy сообщает, занят ли страховой полис.
	ExistsByInsurancePolicy(insurancePolicy string) (bool, error)
	// List возвращает все машины.
	List() ([]Car, error)
	// ListByOwner возвращает машины владельца.
	ListByOwner(ownerID string) ([]Car, error)
	// ListByCarModel возвращает машины указанной модели.
	ListByCarModel(carModelID string) ([]Car, error)
	// Save перезаписывает существующую машину (patch идентификаторов и владельца).
	// Нарушение уникальности идентификаторов возвращается как ErrAlreadyExists.
	Save(car Car) error
}

// CarOptionRepository — чтение связей машина–опция.
// Строки создаются только внутри агрегата заказа.
type CarOptionRepository interface {
	// Get возвращает связь по идентификатору или ErrNotFound.
	Get(id string) (CarOption, error)
	// FindByOptionAndCar возвращает связь по уникальной паре или ErrNotFound.
	FindByOptionAndCar(optionID, carID string) (CarOption, error)
	// ListByCar возвращает опции, установленные на машине.
	ListByCar(carID string) ([]CarOption, error)
	// ListByOption возвращает все машины с указанной опцией.
	ListByOption(optionID string) ([]CarOption, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе с машиной и её опциями в одной транзакции.
	// Нарушение уникальности VIN, регистрационного номера, страхового полиса или
	// пары (option_id, car_id) возвращается как ErrAlreadyExists; при этом не
	// остаётся никакого частично сохранённого состояния.
	Create(order Order) error
	// Get возвращает заказ с машиной и опциями или ErrNotFound.
	Get(id string) (Order, error)
	// List возвращает все заказы.
	List() ([]Order, error)
	// ListByCustomer возвращает заказы клиента.
	ListByCustomer(customerID string) ([]Order, error)
	// ListBySalesman возвращает заказы, оформленные продавцом.
	ListBySalesman(salesmanID string) ([]Order, error)
	// ListByCreatedBetween возвращает заказы, созданные в интервале [from, to].
	ListByCreatedBetween(from, to time.Time) ([]Order, error)
	// Delete удаляет заказ и каскадно его машину с опциями.
	Delete(id string) error
}
