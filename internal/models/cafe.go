package models

// Cafe represents one place-of-interest row in the directory.
// Seats and CoffeePrice are free-form text; the source data never
// carried numeric semantics for either.
type Cafe struct {
	ID           int
	Name         string
	MapURL       string
	ImgURL       string
	Location     string
	Seats        string
	HasToilet    bool
	HasWifi      bool
	HasSockets   bool
	CanTakeCalls bool
	CoffeePrice  string
}
