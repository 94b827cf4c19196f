package config

import "strings"

// DefaultZipName is the release archive name template used when release.zip_name is unset.
const DefaultZipName = "{name}-v{version}"

// PackageSuffix is appended to release archive names that do not already carry it.
const PackageSuffix = ".au2pkg.zip"

// FillTemplate substitutes {name} and {version} from the project table.
func FillTemplate(template string, project Project) string {
	return strings.NewReplacer("{name}", project.Name, "{version}", project.Version).Replace(template)
}

// ZipFileName returns the release archive file name for the given template
// (DefaultZipName when empty), with PackageSuffix ensured.
func ZipFileName(zipName string, project Project) string {
	return withPackageSuffix(FillTemplate(zipNameOrDefault(zipName), project))
}

// ZipNameTemplate returns the unfilled archive name template with PackageSuffix ensured.
func ZipNameTemplate(zipName string) string {
	return withPackageSuffix(zipNameOrDefault(zipName))
}

func zipNameOrDefault(zipName string) string {
	if zipName == "" {
		return DefaultZipName
	}
	return zipName
}

func withPackageSuffix(name string) string {
	if strings.HasSuffix(name, PackageSuffix) {
		return name
	}
	return name + PackageSuffix
}

const initTemplate = `#:schema ./.aviutl2-cli/aviutl2.schema.json
# See https://github.com/sevenc-nanashi/aviutl2-cli for the configuration reference.
[project]
name = "{{project_name}}"
version = "0.1.0"

[artifacts.my_plugin_aux2]
enabled = true
destination = "Plugin/my_plugin.aux2"

[artifacts.my_plugin_aux2.profiles.debug]
build = "cargo build"
source = "target/debug/my_plugin_aux2.dll"
enabled = true

[artifacts.my_plugin_aux2.profiles.release]
build = ["cargo build --release"]
source = "target/release/my_plugin_aux2.dll"
enabled = true

[development]
aviutl2_version = "latest"

[release]
package_template = "package_template.txt"
`

// RenderInitTemplate returns the starter manifest written by `au2 init`.
func RenderInitTemplate(projectName string) string {
	return strings.ReplaceAll(initTemplate, "{{project_name}}", projectName)
}

// GitignoreBlock is appended to .gitignore by `au2 init`.
const GitignoreBlock = "# AviUtl2 CLI\n/" + CLIDirName + "\n/release\n"
