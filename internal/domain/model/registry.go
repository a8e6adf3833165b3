// Пакет model — доменные модели реестра жилого фонда.
package model

import (
	"fmt"
	"time"
)

// Street — улица. Уникальна по имени.
type Street struct {
	ID   int64
	Name string
}

// Building — дом на улице. Номер может содержать буквы: "25", "14А".
type Building struct {
	ID       int64
	StreetID int64
	Number   string
}

// Apartment — квартира в доме.
type Apartment struct {
	ID          int64
	BuildingID  int64
	Number      string
	// Площадь в квадратных метрах
	Area float64
	// Количество комнат; nil — не указано
	Rooms *int
	// Форма собственности: произвольная категория ("Private", "Municipal", ...)
	OwnershipType string
}

// Tenant — жилец, зарегистрированный в квартире.
// ФИО хранится раздельно (имя + фамилия), отображаемое имя — конкатенация.
type Tenant struct {
	ID          int64
	ApartmentID int64
	FirstName   string
	LastName    string
	// Серия паспорта; nil — не указана
	PassportSeries *string
	PassportNumber string
	// Телефон; nil — не указан
	Phone *string
	// Дата регистрации (календарная дата, без времени)
	RegistrationDate time.Time
}

// FullName возвращает отображаемое полное имя жильца.
func (t *Tenant) FullName() string {
	return t.FirstName + " " + t.LastName
}

// TenantWithAddress — жилец с разрешённой адресной цепочкой
// квартира → дом → улица. Используется для справок и списков.
type TenantWithAddress struct {
	Tenant
	Apartment Apartment
	Building  Building
	Street    Street
}

// AddressLabel возвращает полный адрес в формате "улица, дом, квартира".
func (t *TenantWithAddress) AddressLabel() string {
	return fmt.Sprintf("st. %s, bld. %s, apt. %s", t.Street.Name, t.Building.Number, t.Apartment.Number)
}

// ApartmentOption — квартира с адресными атрибутами для выбора в формах.
type ApartmentOption struct {
	ID              int64
	ApartmentNumber string
	BuildingNumber  string
	StreetName      string
}

// Label возвращает подпись варианта для select в форме жильца.
func (o *ApartmentOption) Label() string {
	return fmt.Sprintf("st. %s, bld. %s, apt. %s", o.StreetName, o.BuildingNumber, o.ApartmentNumber)
}

// User — учётная запись. role ∈ {admin, user}; пользователи с ролью user
// могут быть привязаны к одному жильцу (TenantID).
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	TenantID     *int64
}
