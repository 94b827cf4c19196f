package config

import "fmt"

// CatalogType is the plugin category published in the catalog.
type CatalogType string

const (
	CatalogOutput       CatalogType = "output"
	CatalogInput        CatalogType = "input"
	CatalogFilter       CatalogType = "filter"
	CatalogCommon       CatalogType = "common"
	CatalogModification CatalogType = "modification"
	CatalogScript       CatalogType = "script"
	CatalogLanguage     CatalogType = "language"
)

// Catalog describes how an installer should present, fetch and install the plugin.
type Catalog struct {
	ID              string          `toml:"id" validate:"required"`
	Name            string          `toml:"name" validate:"required"`
	Type            CatalogType     `toml:"type" validate:"required,oneof=output input filter common modification script language"`
	Summary         string          `toml:"summary" validate:"required"`
	RawDescription  any             `toml:"description"`
	Author          string          `toml:"author" validate:"required"`
	Homepage        string          `toml:"homepage" validate:"required,url"`
	NiconiCommonsID string          `toml:"niconi_commons_id"`
	Tags            []string        `toml:"tags"`
	Dependencies    []string        `toml:"dependencies"`
	License         CatalogLicense  `toml:"license"`
	DownloadSource  DownloadSource  `toml:"download_source"`
	InstallSteps    []CatalogAction `toml:"install_steps" validate:"omitempty,dive"`
	UninstallSteps  []CatalogAction `toml:"uninstall_steps" validate:"omitempty,dive"`

	// Description is the resolved description text (plain text, a URL, or inline content).
	Description string `toml:"-"`
}

// CatalogLicense declares the plugin license.
//
// mit, apache-2.0, bsd-2-clause and bsd-3-clause are rendered from the standard
// template with Year and Author, unless Text is given, in which case the text is
// published as a custom license body. other requires Text; cc0 and unknown take no fields.
type CatalogLicense struct {
	Type   string `toml:"type" validate:"required,oneof=mit apache-2.0 bsd-2-clause bsd-3-clause cc0 other unknown"`
	Year   string `toml:"year"`
	Author string `toml:"author"`
	Text   string `toml:"text"`
	Name   string `toml:"name"`
}

// DownloadSource tells the installer where release packages live.
type DownloadSource struct {
	Type    string `toml:"type" validate:"required,oneof=direct booth github google_drive"`
	URL     string `toml:"url" validate:"required_if=Type direct,required_if=Type booth"`
	Owner   string `toml:"owner" validate:"required_if=Type github"`
	Repo    string `toml:"repo" validate:"required_if=Type github"`
	Pattern string `toml:"pattern"`
	ID      string `toml:"id" validate:"required_if=Type google_drive"`
}

// CatalogAction is one installer step.
type CatalogAction struct {
	Action  string   `toml:"action" validate:"required,oneof=download extract copy delete run"`
	From    string   `toml:"from" validate:"required_if=Action copy"`
	To      string   `toml:"to" validate:"required_if=Action copy"`
	Path    string   `toml:"path" validate:"required_if=Action delete,required_if=Action run"`
	Args    []string `toml:"args"`
	Elevate *bool    `toml:"elevate"`
}

// parseDescription accepts "text", { url = "..." } or { content = "..." }.
func parseDescription(v any) (string, error) {
	switch value := v.(type) {
	case nil:
		return "", fmt.Errorf("catalog.description is required")
	case string:
		return value, nil
	case map[string]any:
		for _, key := range []string{"url", "content"} {
			if raw, ok := value[key]; ok {
				s, ok := raw.(string)
				if !ok {
					return "", fmt.Errorf("catalog.description.%s must be a string", key)
				}
				return s, nil
			}
		}
		return "", fmt.Errorf("catalog.description table requires url or content")
	default:
		return "", fmt.Errorf("catalog.description has unsupported type %T", v)
	}
}

func (l CatalogLicense) validate() error {
	switch l.Type {
	case "other":
		if l.Text == "" {
			return fmt.Errorf("catalog.license.text is required for type other")
		}
	case "mit", "apache-2.0", "bsd-2-clause", "bsd-3-clause":
		if l.Text == "" && (l.Year == "" || l.Author == "") {
			return fmt.Errorf("catalog.license.year and catalog.license.author are required for type %s", l.Type)
		}
	}
	return nil
}
