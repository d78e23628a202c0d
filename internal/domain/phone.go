package domain

import "strings"

// PhoneSpecification is the immutable input of one estimation request.
type PhoneSpecification struct {
	ModelID     int
	RAMGB       int
	StorageGB   int
	Condition   string
	ReleaseYear int
}

// Validate reports every absent required field at once.
func (s PhoneSpecification) Validate() error {
	var missing []string
	if s.ModelID <= 0 {
		missing = append(missing, "model_id")
	}
	if s.RAMGB <= 0 {
		missing = append(missing, "ram_gb")
	}
	if s.StorageGB <= 0 {
		missing = append(missing, "storage_gb")
	}
	if strings.TrimSpace(s.Condition) == "" {
		missing = append(missing, "condition")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// PhoneModel is a catalog entry.
type PhoneModel struct {
	ID          int
	Name        string
	ReleaseYear int
	Brand       string
}

// ModelInfo is the metadata the inference backend reports for a model.
type ModelInfo struct {
	ModelName        string
	ReleaseYear      int
	AvailableStorage []int
	RAMGB            int
	IsPro            bool
}

// BackendHealth is the inference backend's health probe answer.
type BackendHealth struct {
	Status      string
	Version     string
	ModelLoaded bool
	Uptime      string
}
