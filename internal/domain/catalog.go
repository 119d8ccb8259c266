package domain

import "time"

// CarModel — шаблон продаваемого автомобиля с базовой ценой.
// Пара (Name, MakeYear) уникальна в хранилище.
type CarModel struct {
	ID           string
	Name         string
	MakeYear     int
	Manufacturer string
	// Image — имя файла стокового изображения модели (хранение файлов вне этого сервиса).
	Image string
	// PriceMinor — базовая цена в минимальных денежных единицах.
	PriceMinor int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OptionCategory группирует опции (салон, безопасность, мультимедиа и т.д.).
type OptionCategory struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Option — платное дополнение, привязанное ровно к одной модели и одной категории.
// Опция действительна только для своей модели.
type Option struct {
	ID               string
	Name             string
	PriceMinor       int64
	CarModelID       string
	OptionCategoryID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
