package trip

// Weather is the expected weather at the destination.
type Weather string

const (
	WeatherWarm   Weather = "warm"
	WeatherMedium Weather = "medium"
	WeatherCold   Weather = "cold"
)

// Accommodation is the type of place the traveller stays at.
type Accommodation string

const (
	AccommodationHotel         Accommodation = "hotel"
	AccommodationHostel        Accommodation = "hostel"
	AccommodationMountainCabin Accommodation = "mountain_cabin"
	AccommodationHolidayHome   Accommodation = "holiday_home"
)

const (
	MinNights = 1
	MaxNights = 365
)

// Parameters describes a trip. A packing list is derived from it.
type Parameters struct {
	Nights            int           `json:"nights"`
	Weather           Weather       `json:"weather"`
	Accommodation     Accommodation `json:"accommodation"`
	Beach             bool          `json:"beach"`
	Sauna             bool          `json:"sauna"`
	Hiking            bool          `json:"hiking"`
	Climbing          bool          `json:"climbing"`
	Abroad            bool          `json:"abroad"`
	Flight            bool          `json:"flight"`
	HasCamera         bool          `json:"has_camera"`
	HasWashingMachine bool          `json:"has_washing_machine"`
}

// Default returns the parameters shown before the user has entered anything.
func Default() Parameters {
	return Parameters{
		Nights:        3,
		Weather:       WeatherMedium,
		Accommodation: AccommodationHotel,
	}
}

// ClampNights bounds n to [MinNights, MaxNights].
func ClampNights(n int) int {
	if n < MinNights {
		return MinNights
	}
	if n > MaxNights {
		return MaxNights
	}
	return n
}

// Clamped returns a copy of p with Nights bounded to the supported range.
func (p Parameters) Clamped() Parameters {
	p.Nights = ClampNights(p.Nights)
	return p
}
