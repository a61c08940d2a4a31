package content

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Announcement is a short notice shown on the home panel.
type Announcement struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// NewsItem is a card shown on the news panel.
type NewsItem struct {
	Title   string `json:"title" yaml:"title"`
	Excerpt string `json:"excerpt" yaml:"excerpt"`
	Image   string `json:"image,omitempty" yaml:"image,omitempty"`
}

// DocumentLink is an entry on the document-lookup panel. The download action
// is presentational; file retrieval belongs to an external document service.
type DocumentLink struct {
	Title     string   `json:"title" yaml:"title"`
	UpdatedAt string   `json:"updated_at" yaml:"updated_at"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Config is the portal content configuration, loaded once at startup.
type Config struct {
	Units         []string       `yaml:"units"`
	Announcements []Announcement `yaml:"announcements"`
	News          []NewsItem     `yaml:"news"`
	Documents     []DocumentLink `yaml:"documents"`
}

// DefaultConfig returns the built-in portal content, used when no config file
// is present or a section is left empty.
func DefaultConfig() Config {
	return Config{
		Units: DefaultUnits,
		Announcements: []Announcement{
			{
				Title: "Atualização do sistema",
				Body:  "O sistema será atualizado no dia 15/10 às 20h.",
			},
			{
				Title: "Treinamento obrigatório",
				Body:  "Todos os colaboradores devem completar o treinamento até 30/10.",
			},
		},
		News: []NewsItem{
			{
				Title:   "Novo contrato fechado",
				Excerpt: "A Sirtec fechou novo contrato com importante cliente...",
			},
			{
				Title:   "Evento de integração",
				Excerpt: "Confira as fotos do nosso último evento de integração...",
			},
		},
		Documents: []DocumentLink{
			{
				Title:     "Manual do Colaborador",
				UpdatedAt: "01/10/2023",
				Tags:      []string{"rh"},
			},
			{
				Title:     "Regulamento Interno",
				UpdatedAt: "15/09/2023",
				Tags:      []string{"rh", "normas"},
			},
		},
	}
}

// LoadConfig reads the portal content config from path. A missing file is not
// an error; the defaults are returned. Sections left empty in the file fall
// back to the defaults section by section.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("could not read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(file.Units) > 0 {
		cfg.Units = file.Units
	}
	if len(file.Announcements) > 0 {
		cfg.Announcements = file.Announcements
	}
	if len(file.News) > 0 {
		cfg.News = file.News
	}
	if len(file.Documents) > 0 {
		cfg.Documents = file.Documents
	}

	return cfg, nil
}
