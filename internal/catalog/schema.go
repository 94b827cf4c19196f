package catalog

import (
	"encoding/json"
	"fmt"
)

// Index is the catalog document: a list of installable entries.
type Index []Entry

// Entry describes one plugin to the package installer.
type Entry struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            EntryType `json:"type"`
	Summary         string    `json:"summary"`
	Description     string    `json:"description"`
	Author          string    `json:"author"`
	RepoURL         string    `json:"repoURL"`
	Licenses        []License `json:"licenses"`
	NiconiCommonsID *string   `json:"niconiCommonsId"`
	Tags            []string  `json:"tags"`
	Dependencies    []string  `json:"dependencies"`
	Images          []Image   `json:"images"`
	Installer       Installer `json:"installer"`
	Version         []Version `json:"version"`
}

// EntryType is the category label shown by the installer.
type EntryType string

const (
	TypeHost         EntryType = "本体"
	TypeOutput       EntryType = "出力プラグイン"
	TypeInput        EntryType = "入力プラグイン"
	TypeFilter       EntryType = "フィルタプラグイン"
	TypeCommon       EntryType = "汎用プラグイン"
	TypeModification EntryType = "MOD"
	TypeScript       EntryType = "スクリプト"
)

// License is a catalog license entry. Custom licenses carry their full text in LicenseBody.
type License struct {
	Type        string      `json:"type"`
	IsCustom    bool        `json:"isCustom"`
	Copyrights  []Copyright `json:"copyrights"`
	LicenseBody *string     `json:"licenseBody"`
}

// Copyright names a holder and the years they hold it.
type Copyright struct {
	Years  string `json:"years"`
	Holder string `json:"holder"`
}

// Image lists the thumbnail and info images shown in the catalog.
type Image struct {
	Thumbnail *string  `json:"thumbnail"`
	InfoImg   []string `json:"infoImg"`
}

// Installer tells the package manager where to fetch the package and how to
// install and remove it.
type Installer struct {
	Source    Source   `json:"source"`
	Install   []Action `json:"install"`
	Uninstall []Action `json:"uninstall"`
}

// Source is where the installer downloads the package from. Exactly one
// field is set; it is encoded as a single-key object such as {"direct": "..."}.
type Source struct {
	Direct      string
	Booth       string
	GitHub      *GitHubSource
	GoogleDrive *GoogleDriveSource
}

// GitHubSource selects a release asset whose name matches Pattern.
type GitHubSource struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Pattern string `json:"pattern"`
}

// GoogleDriveSource is a shared Google Drive file.
type GoogleDriveSource struct {
	ID string `json:"id"`
}

// MarshalJSON encodes the one location that is set, preferring GitHub.
func (s Source) MarshalJSON() ([]byte, error) {
	switch {
	case s.GitHub != nil:
		return json.Marshal(map[string]any{"github": s.GitHub})
	case s.GoogleDrive != nil:
		return json.Marshal(map[string]any{"GoogleDrive": s.GoogleDrive})
	case s.Booth != "":
		return json.Marshal(map[string]string{"booth": s.Booth})
	case s.Direct != "":
		return json.Marshal(map[string]string{"direct": s.Direct})
	default:
		return nil, fmt.Errorf("catalog source has no location")
	}
}

// Action kinds understood by the installer.
const (
	ActionDownload = "download"
	ActionExtract  = "extract"
	ActionCopy     = "copy"
	ActionDelete   = "delete"
	ActionRun      = "run"
)

// Action is one installer step. Only the fields of its kind are encoded.
type Action struct {
	Action  string
	From    string
	To      string
	Path    string
	Args    []string
	Elevate *bool
}

// MarshalJSON encodes the action with only the keys its kind uses.
// run always carries args and elevate, even when empty.
func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Action {
	case ActionDownload, ActionExtract:
		return json.Marshal(struct {
			Action string `json:"action"`
		}{a.Action})
	case ActionCopy:
		return json.Marshal(struct {
			Action string `json:"action"`
			From   string `json:"from"`
			To     string `json:"to"`
		}{a.Action, a.From, a.To})
	case ActionDelete:
		return json.Marshal(struct {
			Action string `json:"action"`
			Path   string `json:"path"`
		}{a.Action, a.Path})
	case ActionRun:
		args := a.Args
		if args == nil {
			args = []string{}
		}
		return json.Marshal(struct {
			Action  string   `json:"action"`
			Path    string   `json:"path"`
			Args    []string `json:"args"`
			Elevate *bool    `json:"elevate"`
		}{a.Action, a.Path, args, a.Elevate})
	default:
		return nil, fmt.Errorf("unknown installer action %q", a.Action)
	}
}

// Version is one released version with its packaged files.
type Version struct {
	Version     string `json:"version"`
	ReleaseDate string `json:"release_date"`
	File        []File `json:"file"`
}

// File is a packaged file and its XXH3-128 digest.
type File struct {
	Path     string `json:"path"`
	XXH3_128 string `json:"XXH3_128"`
}
