package service

import (
	"errors"
	"testing"
)

// TestValidateAddressForm проверяет валидацию формы адреса.
func TestValidateAddressForm(t *testing.T) {
	valid := AddressForm{
		StreetName:      "Шевченко",
		BuildingNumber:  "12а",
		ApartmentNumber: "7",
		Area:            "54.30",
		Rooms:           "2",
		OwnershipType:   "Private",
	}

	t.Run("валидная форма", func(t *testing.T) {
		parsed, err := validateForm(valid)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if parsed.area != 54.30 {
			t.Errorf("неверная площадь: %v", parsed.area)
		}
		if parsed.rooms == nil || *parsed.rooms != 2 {
			t.Errorf("неверное количество комнат: %v", parsed.rooms)
		}
	})

	t.Run("пустые комнаты — nil", func(t *testing.T) {
		form := valid
		form.Rooms = "  "
		parsed, err := validateForm(form)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if parsed.rooms != nil {
			t.Errorf("комнаты должны быть nil, получено %d", *parsed.rooms)
		}
	})

	t.Run("ноль комнат допустим", func(t *testing.T) {
		form := valid
		form.Rooms = "0"
		parsed, err := validateForm(form)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if parsed.rooms == nil || *parsed.rooms != 0 {
			t.Errorf("ожидалось 0 комнат, получено %v", parsed.rooms)
		}
	})

	invalid := []struct {
		name   string
		mutate func(*AddressForm)
	}{
		{"пустая улица", func(f *AddressForm) { f.StreetName = "  " }},
		{"пустой номер дома", func(f *AddressForm) { f.BuildingNumber = "" }},
		{"пустой номер квартиры", func(f *AddressForm) { f.ApartmentNumber = "" }},
		{"пустая форма собственности", func(f *AddressForm) { f.OwnershipType = "" }},
		{"нулевая площадь", func(f *AddressForm) { f.Area = "0" }},
		{"отрицательная площадь", func(f *AddressForm) { f.Area = "-10" }},
		{"нечисловая площадь", func(f *AddressForm) { f.Area = "abc" }},
		{"отрицательные комнаты", func(f *AddressForm) { f.Rooms = "-1" }},
		{"нецелые комнаты", func(f *AddressForm) { f.Rooms = "1.5" }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			if _, err := validateForm(form); !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидалась ErrValidation, получено: %v", err)
			}
		})
	}
}
