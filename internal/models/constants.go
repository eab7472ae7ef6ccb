// Package models contains the data types shared by the clients and the TUI.
package models

import "strings"

// Endpoints for the backends
const (
	EndpointGeminiBase = "https://generativelanguage.googleapis.com"
	EndpointBibleAPI   = "https://bible-api.com"
)

// Model represents a Gemini model that can be selected by name or alias
type Model struct {
	Name  string // API model id, e.g. "gemini-2.5-flash"
	Alias string // short name used in config and flags
}

// Available models
var (
	Model25Flash = Model{
		Name:  "gemini-2.5-flash",
		Alias: "fast",
	}

	Model25FlashLite = Model{
		Name:  "gemini-2.5-flash-lite",
		Alias: "lite",
	}

	Model25Pro = Model{
		Name:  "gemini-2.5-pro",
		Alias: "pro",
	}

	// DefaultModel is the recommended default
	DefaultModel = Model25Flash
)

// AllModels returns a list of all known models
func AllModels() []Model {
	return []Model{Model25Flash, Model25FlashLite, Model25Pro}
}

// ModelFromName returns a Model by API name or alias. Unknown names are
// passed through unchanged so newer models can be used without a release.
func ModelFromName(name string) Model {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultModel
	}
	for _, m := range AllModels() {
		if strings.EqualFold(m.Name, name) || strings.EqualFold(m.Alias, name) {
			return m
		}
	}
	return Model{Name: name}
}

// DefaultHeaders returns the headers sent with every backend request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":          "application/json",
		"Accept-Language": "es-ES,es;q=0.9,en;q=0.8",
		"User-Agent":      "luz/0.1 (+https://github.com/luzyverdad/luz)",
	}
}
