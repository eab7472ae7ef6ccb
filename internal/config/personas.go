package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultPersonaName is the persona used when none is configured
const DefaultPersonaName = "consejero"

// Persona is a named system instruction for the chat
type Persona struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SystemPrompt string  `json:"system_prompt"`
	Model        string  `json:"model,omitempty"`       // Preferred model (optional)
	Temperature  float64 `json:"temperature,omitempty"` // Overrides the configured temperature when > 0
}

// PersonaConfig stores all personas
type PersonaConfig struct {
	Personas       []Persona `json:"personas"`
	DefaultPersona string    `json:"default_persona,omitempty"`
}

// DefaultPersonas returns the built-in personas
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name:        DefaultPersonaName,
			Description: "Consejero cristiano compasivo",
			SystemPrompt: `Eres un consejero espiritual cristiano, compasivo y sabio. Responde siempre en español.
- Escucha con empatía y responde con calidez
- Fundamenta tus respuestas en las Escrituras y cita los versículos (libro capítulo:versículo)
- No juzgues; ofrece esperanza, consuelo y orientación práctica
- Si la persona está en peligro o crisis, anímala a buscar ayuda profesional y a su comunidad de fe
- Sé breve y claro; usa markdown cuando ayude a la lectura`,
		},
		{
			Name:        "pastor",
			Description: "Pastor que enseña con sermones breves",
			SystemPrompt: `Eres un pastor con experiencia. Responde en español.
- Explica los pasajes bíblicos en su contexto
- Ofrece una aplicación práctica para la vida diaria
- Termina con una breve oración cuando sea apropiado`,
		},
		{
			Name:        "teologo",
			Description: "Respuestas doctrinales y de estudio bíblico",
			SystemPrompt: `Eres un teólogo cristiano riguroso y accesible. Responde en español.
- Presenta las distintas tradiciones con respeto cuando difieran
- Explica términos en griego o hebreo cuando aporten claridad
- Cita las referencias bíblicas que sustentan cada punto`,
		},
		{
			Name:        "joven",
			Description: "Mentor cercano para jóvenes",
			SystemPrompt: `Eres un mentor cristiano para jóvenes. Responde en español con un tono cercano y sencillo.
- Usa ejemplos de la vida cotidiana
- Anima sin sermonear
- Incluye un versículo para recordar`,
		},
		{
			Name:         "ninguno",
			Description:  "Sin instrucciones de sistema",
			SystemPrompt: "",
		},
	}
}

// GetPersonasPath returns the path to the personas file
func GetPersonasPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personas.json"), nil
}

// LoadPersonas loads the persona configuration, merged over the built-ins
func LoadPersonas() (*PersonaConfig, error) {
	path, err := GetPersonasPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PersonaConfig{
				Personas:       DefaultPersonas(),
				DefaultPersona: DefaultPersonaName,
			}, nil
		}
		return nil, fmt.Errorf("failed to read personas: %w", err)
	}

	var pc PersonaConfig
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	pc.Personas = mergePersonas(DefaultPersonas(), pc.Personas)
	if pc.DefaultPersona == "" {
		pc.DefaultPersona = DefaultPersonaName
	}

	return &pc, nil
}

// SavePersonas saves the persona configuration
func SavePersonas(pc *PersonaConfig) error {
	path, err := GetPersonasPath()
	if err != nil {
		return err
	}

	if _, err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// GetPersona returns a persona by name
func GetPersona(name string) (*Persona, error) {
	pc, err := LoadPersonas()
	if err != nil {
		return nil, err
	}
	return pc.Find(name)
}

// Find returns the persona with the given name
func (pc *PersonaConfig) Find(name string) (*Persona, error) {
	for _, p := range pc.Personas {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("persona '%s' not found", name)
}

// ListPersonaNames returns the names of all personas, sorted
func ListPersonaNames() ([]string, error) {
	pc, err := LoadPersonas()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(pc.Personas))
	for i, p := range pc.Personas {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names, nil
}

// AddPersona adds a new persona
func AddPersona(persona Persona) error {
	if err := ValidatePersona(persona); err != nil {
		return err
	}

	pc, err := LoadPersonas()
	if err != nil {
		return err
	}

	if _, err := pc.Find(persona.Name); err == nil {
		return fmt.Errorf("persona '%s' already exists", persona.Name)
	}

	pc.Personas = append(pc.Personas, persona)
	return SavePersonas(pc)
}

// UpdatePersona updates an existing persona
func UpdatePersona(persona Persona) error {
	if err := ValidatePersona(persona); err != nil {
		return err
	}

	pc, err := LoadPersonas()
	if err != nil {
		return err
	}

	found := false
	for i, p := range pc.Personas {
		if p.Name == persona.Name {
			pc.Personas[i] = persona
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("persona '%s' not found", persona.Name)
	}

	return SavePersonas(pc)
}

// DeletePersona removes a user persona by name. Built-in personas cannot be deleted.
func DeletePersona(name string) error {
	for _, p := range DefaultPersonas() {
		if p.Name == name {
			return fmt.Errorf("cannot delete built-in persona '%s'", name)
		}
	}

	pc, err := LoadPersonas()
	if err != nil {
		return err
	}

	kept := make([]Persona, 0, len(pc.Personas))
	found := false
	for _, p := range pc.Personas {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}

	if !found {
		return fmt.Errorf("persona '%s' not found", name)
	}

	pc.Personas = kept
	if pc.DefaultPersona == name {
		pc.DefaultPersona = DefaultPersonaName
	}

	return SavePersonas(pc)
}

// SetDefaultPersona sets the default persona
func SetDefaultPersona(name string) error {
	pc, err := LoadPersonas()
	if err != nil {
		return err
	}
	if _, err := pc.Find(name); err != nil {
		return err
	}

	pc.DefaultPersona = name
	return SavePersonas(pc)
}

// GetDefaultPersona returns the default persona
func GetDefaultPersona() (*Persona, error) {
	pc, err := LoadPersonas()
	if err != nil {
		return nil, err
	}

	name := pc.DefaultPersona
	if name == "" {
		name = DefaultPersonaName
	}

	return pc.Find(name)
}

// ResolvePersona returns the named persona, or the default one when name is empty
func ResolvePersona(name string) (*Persona, error) {
	if name == "" {
		return GetDefaultPersona()
	}
	return GetPersona(name)
}

func mergePersonas(defaults, custom []Persona) []Persona {
	result := make([]Persona, len(defaults))
	copy(result, defaults)

	for _, cp := range custom {
		found := false
		for i, dp := range result {
			if dp.Name == cp.Name {
				result[i] = cp
				found = true
				break
			}
		}
		if !found {
			result = append(result, cp)
		}
	}

	return result
}

// Validation constants
const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
	MaxPromptLength      = 32 * 1024
)

// ValidatePersona validates a persona's fields
func ValidatePersona(p Persona) error {
	fieldErrors := make(map[string]string)

	if p.Name == "" {
		fieldErrors["name"] = "name is required"
	} else if len(p.Name) > MaxNameLength {
		fieldErrors["name"] = fmt.Sprintf("name too long (max %d characters)", MaxNameLength)
	} else if !isValidPersonaName(p.Name) {
		fieldErrors["name"] = "name must contain only alphanumeric characters, underscores, and hyphens"
	}

	if len(p.Description) > MaxDescriptionLength {
		fieldErrors["description"] = fmt.Sprintf("description too long (max %d characters)", MaxDescriptionLength)
	}

	if len(p.SystemPrompt) > MaxPromptLength {
		fieldErrors["system_prompt"] = fmt.Sprintf("system prompt too long (max %d characters)", MaxPromptLength)
	}

	if p.Temperature < 0 || p.Temperature > 2 {
		fieldErrors["temperature"] = "temperature must be between 0 and 2"
	}

	if len(fieldErrors) > 0 {
		return fmt.Errorf("validation failed: %v", fieldErrors)
	}

	return nil
}

func isValidPersonaName(name string) bool {
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return false
		}
	}
	return true
}
