package project

// Fields are the caller-supplied attributes shared by create and update.
type Fields struct {
	Title       string
	Description string
	Skills      string
	PriceLow    int64
	PriceHigh   int64
	DueDate     int64
}

// ValidateFields checks every project invariant against the given time (unix
// seconds). Text fields only need to be non-empty; whitespace counts.
func ValidateFields(f Fields, now int64) error {
	if f.Title == "" {
		return ErrInvalidInput
	}
	if f.Description == "" {
		return ErrInvalidInput
	}
	if f.Skills == "" {
		return ErrInvalidInput
	}
	if f.PriceLow <= 0 || f.PriceHigh <= 0 {
		return ErrInvalidInput
	}
	if f.PriceHigh < f.PriceLow {
		return ErrInvalidInput
	}
	if f.DueDate < now {
		return ErrInvalidInput
	}
	return nil
}

func (f Fields) apply(proj *Project) {
	proj.Title = f.Title
	proj.Description = f.Description
	proj.Skills = f.Skills
	proj.PriceLow = f.PriceLow
	proj.PriceHigh = f.PriceHigh
	proj.DueDate = f.DueDate
}
