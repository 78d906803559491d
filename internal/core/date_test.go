package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "plain date", input: "2026-02-01", want: NewDate(2026, 2, 1)},
		{name: "padded input", input: "  2026-12-31 ", want: NewDate(2026, 12, 31)},
		{name: "leap day", input: "2024-02-29", want: NewDate(2024, 2, 29)},
		{name: "not a leap year", input: "2026-02-29", wantErr: true},
		{name: "wrong layout", input: "01/02/2026", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("want ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want.Time) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDateDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		from Date
		to   Date
		want int
	}{
		{name: "same day", from: NewDate(2026, 2, 1), to: NewDate(2026, 2, 1), want: 0},
		{name: "one week", from: NewDate(2026, 2, 1), to: NewDate(2026, 2, 8), want: 7},
		{name: "across month boundary", from: NewDate(2026, 1, 28), to: NewDate(2026, 2, 5), want: 8},
		{name: "backwards", from: NewDate(2026, 2, 8), to: NewDate(2026, 2, 1), want: -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.DaysUntil(tt.to); got != tt.want {
				t.Fatalf("DaysUntil = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, 2, 1)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-02-01"` {
		t.Fatalf("marshal = %s", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed date: %s != %s", back, d)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "morning", input: "09:30", want: TimeOfDay{Hour: 9, Minute: 30}},
		{name: "midnight", input: "00:00", want: TimeOfDay{}},
		{name: "last minute", input: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{name: "out of range hour", input: "24:00", wantErr: true},
		{name: "missing minutes", input: "9", wantErr: true},
		{name: "twelve hour clock", input: "9:30 PM", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("want ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeOfDayBefore(t *testing.T) {
	nine := TimeOfDay{Hour: 9}
	nineThirty := TimeOfDay{Hour: 9, Minute: 30}
	ten := TimeOfDay{Hour: 10}

	if !nine.Before(nineThirty) || !nineThirty.Before(ten) {
		t.Fatal("expected 09:00 < 09:30 < 10:00")
	}
	if nine.Before(nine) {
		t.Fatal("a time must not sort before itself")
	}
	if ten.Before(nine) {
		t.Fatal("10:00 must not sort before 09:00")
	}
}
