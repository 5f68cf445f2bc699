package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/QmazProject/Asset-Management-System/internal/model"
)

func recurrent(basis, unit, freq string) Input {
	return Input{Basis: basis, ServiceType: model.ServiceTypeRecurrent, PeriodUnit: unit, Frequency: freq}
}

func TestDerivePeriodDays(t *testing.T) {
	cases := []struct {
		freq   string
		number int
		errMsg string
	}{
		{"1", 1, ""},
		{"9", 9, ""},
		{"10", 10, ""},
		{"15", 10, ""},
		{"", 10, ""},
		{"-1", 10, ErrInvalidNumber},
		{"1.5", 10, ErrInvalidNumber},
		{"0", 10, ErrInvalidNumber},
		{"abc", 10, ErrInvalidNumber},
		{"12abc", 10, ErrInvalidNumber},
	}
	for _, tc := range cases {
		got := Derive(recurrent(model.BasisPeriod, model.UnitDays, tc.freq))
		assert.Equal(t, tc.number, got.Number, "freq=%q", tc.freq)
		assert.Equal(t, model.NotifyUnitDays, got.Unit, "freq=%q", tc.freq)
		assert.Equal(t, tc.errMsg, got.Err, "freq=%q", tc.freq)
	}
}

func TestDerivePeriodWeeks(t *testing.T) {
	cases := []struct {
		freq   string
		number int
	}{
		{"1", 7},
		{"2", 14},
		{"4", 28},
		{"5", 30},
		{"12", 30},
		{"", 10},
	}
	for _, tc := range cases {
		got := Derive(recurrent(model.BasisPeriod, model.UnitWeeks, tc.freq))
		assert.True(t, got.Valid(), "freq=%q", tc.freq)
		assert.Equal(t, tc.number, got.Number, "freq=%q", tc.freq)
		assert.Equal(t, model.NotifyUnitDays, got.Unit)
	}
}

func TestDerivePeriodMonthsYears(t *testing.T) {
	for _, unit := range []string{model.UnitMonths, model.UnitYears} {
		// Any valid input derives 30 days of advance notice.
		for _, freq := range []string{"1", "6", "24"} {
			got := Derive(recurrent(model.BasisPeriod, unit, freq))
			assert.Equal(t, 30, got.Number, "unit=%s freq=%q", unit, freq)
			assert.Equal(t, model.NotifyUnitDays, got.Unit)
			assert.True(t, got.Valid())
		}
		// Empty input falls back to the 10-day default.
		got := Derive(recurrent(model.BasisPeriod, unit, ""))
		assert.Equal(t, 10, got.Number, "unit=%s", unit)
		assert.True(t, got.Valid())
	}
}

func TestDeriveDistance(t *testing.T) {
	got := Derive(recurrent(model.BasisDistance, "", "250"))
	assert.Equal(t, Result{Number: 250, Unit: model.NotifyUnitKilometers}, got)

	got = Derive(recurrent(model.BasisDistance, "", "120"))
	assert.Equal(t, Result{Number: 120, Unit: model.NotifyUnitKilometers}, got)

	// Above the cap: error, value resets to the cap.
	got = Derive(recurrent(model.BasisDistance, "", "251"))
	assert.Equal(t, ErrDistanceExceeded, got.Err)
	assert.Equal(t, 250, got.Number)

	got = Derive(recurrent(model.BasisDistance, "", "0"))
	assert.Equal(t, ErrInvalidNumber, got.Err)
	assert.Equal(t, 250, got.Number)

	// Empty input keeps the 250km default without an error.
	got = Derive(recurrent(model.BasisDistance, "", ""))
	assert.Equal(t, Result{Number: 250, Unit: model.NotifyUnitKilometers}, got)
}

func TestDeriveEngineHours(t *testing.T) {
	got := Derive(recurrent(model.BasisEngineHours, "", "150"))
	assert.Equal(t, Result{Number: 150, Unit: model.NotifyUnitHours}, got)

	got = Derive(recurrent(model.BasisEngineHours, "", "151"))
	assert.Equal(t, ErrEngineExceeded, got.Err)
	assert.Equal(t, 150, got.Number)

	got = Derive(recurrent(model.BasisEngineHours, "", ""))
	assert.Equal(t, Result{Number: 150, Unit: model.NotifyUnitHours}, got)
}

func TestDeriveOneTimeService(t *testing.T) {
	// One time services ignore the frequency entirely, valid or not.
	for _, freq := range []string{"", "7", "-3", "garbage", "9999"} {
		got := Derive(Input{Basis: model.BasisPeriod, ServiceType: model.ServiceTypeOneTime, PeriodUnit: model.UnitWeeks, Frequency: freq})
		assert.Equal(t, Result{Number: 10, Unit: model.NotifyUnitDays}, got, "freq=%q", freq)

		got = Derive(Input{Basis: model.BasisDistance, ServiceType: model.ServiceTypeOneTime, Frequency: freq})
		assert.Equal(t, Result{Number: 250, Unit: model.NotifyUnitKilometers}, got, "freq=%q", freq)

		got = Derive(Input{Basis: model.BasisEngineHours, ServiceType: model.ServiceTypeOneTime, Frequency: freq})
		assert.Equal(t, Result{Number: 150, Unit: model.NotifyUnitHours}, got, "freq=%q", freq)
	}
}

func TestDeriveIdempotent(t *testing.T) {
	in := recurrent(model.BasisPeriod, model.UnitWeeks, "3")
	first := Derive(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Derive(in))
	}
}

func TestDeriveWhitespaceTrimmed(t *testing.T) {
	got := Derive(recurrent(model.BasisPeriod, model.UnitDays, " 5 "))
	assert.Equal(t, Result{Number: 5, Unit: model.NotifyUnitDays}, got)
}
