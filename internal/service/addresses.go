package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zhilfond/housing-registry/internal/domain/model"
	"github.com/zhilfond/housing-registry/internal/repository"
)

// AddressForm — данные формы добавления/редактирования адреса.
// Все поля приходят строками из HTML-формы.
type AddressForm struct {
	StreetName      string
	BuildingNumber  string
	ApartmentNumber string
	Area            string
	Rooms           string
	OwnershipType   string
}

// AddressView — адрес для отображения в форме редактирования.
type AddressView struct {
	Apartment model.Apartment
	Building  model.Building
	Street    model.Street
}

// AddressService — операции над адресной иерархией.
// Каждая мутация выполняется в одной транзакции: при любой ошибке
// откатывается целиком, без частичных записей.
type AddressService struct {
	txRunner  *repository.TxRunner
	addresses repository.AddressRepository
	logger    *slog.Logger
}

// NewAddressService создаёт сервис адресов.
func NewAddressService(
	txRunner *repository.TxRunner,
	addresses repository.AddressRepository,
	logger *slog.Logger,
) *AddressService {
	return &AddressService{
		txRunner:  txRunner,
		addresses: addresses,
		logger:    logger.With(slog.String("component", "address_service")),
	}
}

// parsedAddress — провалидированные поля формы адреса.
type parsedAddress struct {
	streetName      string
	buildingNumber  string
	apartmentNumber string
	area            float64
	rooms           *int
	ownershipType   string
}

// validateForm валидирует форму адреса и разбирает числовые поля.
func validateForm(form AddressForm) (*parsedAddress, error) {
	p := &parsedAddress{
		streetName:      strings.TrimSpace(form.StreetName),
		buildingNumber:  strings.TrimSpace(form.BuildingNumber),
		apartmentNumber: strings.TrimSpace(form.ApartmentNumber),
		ownershipType:   strings.TrimSpace(form.OwnershipType),
	}

	if p.streetName == "" {
		return nil, fmt.Errorf("%w: не указано название улицы", ErrValidation)
	}
	if p.buildingNumber == "" {
		return nil, fmt.Errorf("%w: не указан номер дома", ErrValidation)
	}
	if p.apartmentNumber == "" {
		return nil, fmt.Errorf("%w: не указан номер квартиры", ErrValidation)
	}
	if p.ownershipType == "" {
		return nil, fmt.Errorf("%w: не указана форма собственности", ErrValidation)
	}

	area, err := strconv.ParseFloat(strings.TrimSpace(form.Area), 64)
	if err != nil || area <= 0 {
		return nil, fmt.Errorf("%w: площадь должна быть положительным числом", ErrValidation)
	}
	p.area = area

	if rooms := strings.TrimSpace(form.Rooms); rooms != "" {
		n, err := strconv.Atoi(rooms)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: количество комнат должно быть неотрицательным целым", ErrValidation)
		}
		p.rooms = &n
	}

	return p, nil
}

// AddAddress создаёт адрес: улица и дом находятся или создаются лениво,
// квартира создаётся явно. Вся операция — одна транзакция.
func (s *AddressService) AddAddress(ctx context.Context, form AddressForm) (*model.Apartment, error) {
	parsed, err := validateForm(form)
	if err != nil {
		return nil, err
	}

	var apt *model.Apartment
	err = s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		repo := repository.NewAddressRepository(tx)

		street, err := repo.GetOrCreateStreet(ctx, parsed.streetName)
		if err != nil {
			return err
		}
		building, err := repo.GetOrCreateBuilding(ctx, street.ID, parsed.buildingNumber)
		if err != nil {
			return err
		}

		apt = &model.Apartment{
			BuildingID:    building.ID,
			Number:        parsed.apartmentNumber,
			Area:          parsed.area,
			Rooms:         parsed.rooms,
			OwnershipType: parsed.ownershipType,
		}
		return repo.CreateApartment(ctx, apt)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, s.storageError("добавление адреса", err)
	}

	s.logger.Info("Адрес добавлен",
		slog.String("street", parsed.streetName),
		slog.String("building", parsed.buildingNumber),
		slog.String("apartment", parsed.apartmentNumber),
	)
	return apt, nil
}

// GetAddress возвращает адрес по id квартиры для формы редактирования.
func (s *AddressService) GetAddress(ctx context.Context, apartmentID int64) (*AddressView, error) {
	apt, building, street, err := s.addresses.GetApartment(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: квартира %d", ErrNotFound, apartmentID)
		}
		return nil, s.storageError("получение адреса", err)
	}
	return &AddressView{Apartment: *apt, Building: *building, Street: *street}, nil
}

// EditAddress обновляет улицу, дом и квартиру адреса в одной транзакции.
func (s *AddressService) EditAddress(ctx context.Context, apartmentID int64, form AddressForm) error {
	parsed, err := validateForm(form)
	if err != nil {
		return err
	}

	err = s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		repo := repository.NewAddressRepository(tx)

		apt, building, street, err := repo.GetApartment(ctx, apartmentID)
		if err != nil {
			return err
		}

		street.Name = parsed.streetName
		building.Number = parsed.buildingNumber
		apt.Number = parsed.apartmentNumber
		apt.Area = parsed.area
		apt.Rooms = parsed.rooms
		apt.OwnershipType = parsed.ownershipType

		return repo.UpdateAddress(ctx, street, building, apt)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("%w: квартира %d", ErrNotFound, apartmentID)
		case errors.Is(err, repository.ErrConflict):
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return s.storageError("обновление адреса", err)
	}

	s.logger.Info("Адрес обновлён", slog.Int64("apartment_id", apartmentID))
	return nil
}

// DeleteAddress удаляет квартиру с условным каскадом: опустевший дом,
// затем опустевшая улица. Одна транзакция — либо весь каскад, либо ничего.
func (s *AddressService) DeleteAddress(ctx context.Context, apartmentID int64) error {
	err := s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		return repository.NewAddressRepository(tx).DeleteApartmentCascade(ctx, apartmentID)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("%w: квартира %d", ErrNotFound, apartmentID)
		case errors.Is(err, repository.ErrReferenced):
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return s.storageError("удаление адреса", err)
	}

	s.logger.Info("Адрес удалён", slog.Int64("apartment_id", apartmentID))
	return nil
}

// ListApartmentOptions возвращает все квартиры с адресными подписями
// для выбора в форме жильца.
func (s *AddressService) ListApartmentOptions(ctx context.Context) ([]model.ApartmentOption, error) {
	options, err := s.addresses.ListApartmentOptions(ctx)
	if err != nil {
		return nil, s.storageError("получение списка квартир", err)
	}
	return options, nil
}

// storageError логирует ошибку хранилища и возвращает общую ошибку
// без деталей внутреннего сбоя.
func (s *AddressService) storageError(op string, err error) error {
	s.logger.Error("Ошибка хранилища",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, op)
}
