package domain

import "fmt"

// Guideline is the deletable parent kind the cleanup service reconciles
// orphaned triple references against. Authoring happens in an external
// system; only identity and ownership are kept here.
type Guideline struct {
	ID      string
	WorldID string
	Title   string
}

// ValidateGuideline validates a Guideline instance
func ValidateGuideline(g *Guideline) error {
	if g == nil {
		return fmt.Errorf("guideline cannot be nil")
	}
	if g.ID == "" {
		return fmt.Errorf("guideline ID is required")
	}
	if g.Title == "" {
		return fmt.Errorf("guideline Title is required")
	}
	return nil
}
