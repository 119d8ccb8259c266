package domain

import "time"

// Car — проданный автомобиль. VIN, регистрационный номер и страховой полис
// глобально уникальны после сохранения.
type Car struct {
	ID                 string
	VIN                string
	RegistrationNumber string
	InsurancePolicy    string
	// Image — имя файла изображения; по умолчанию стоковое изображение модели.
	Image      string
	OwnerID    string
	CarModelID string
	// Options — установленные опции; строки создаются только внутри агрегата заказа.
	Options   []CarOption
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CarOption фиксирует, что на конкретной машине установлена конкретная опция.
// Пара (OptionID, CarID) уникальна.
type CarOption struct {
	ID        string
	OptionID  string
	CarID     string
	CreatedAt time.Time
}
