package models

import "fmt"

// BibleVerse is a looked-up passage as returned by bible-api.com
type BibleVerse struct {
	Reference       string `json:"reference"`
	Text            string `json:"text"`
	TranslationID   string `json:"translation_id"`
	TranslationName string `json:"translation_name"`
}

// Citation formats the verse as the quoted text, its reference and translation
func (v BibleVerse) Citation() string {
	if v.TranslationName == "" {
		return fmt.Sprintf("“%s” — %s", v.Text, v.Reference)
	}
	return fmt.Sprintf("“%s” — %s (%s)", v.Text, v.Reference, v.TranslationName)
}

// Translation describes a Bible translation offered by the verse backend
type Translation struct {
	ID       string `json:"id" mapstructure:"id"`
	Name     string `json:"name" mapstructure:"name"`
	Language string `json:"language" mapstructure:"language"`
}
