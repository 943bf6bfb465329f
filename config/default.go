// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spacedl/spacedl/color"
	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/key"
	"github.com/spacedl/spacedl/style"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.DownloadDir, ".", "Directory the final audio files are written to.\nCreated if absent")
	register(key.DownloadTemplate, "(%{creator_screen_name})%{title}-%{rest_id}", "Output filename template.\nPlaceholders: %{title}, %{rest_id}, %{created_at}, %{started_at}, %{ended_at}, %{updated_at},\n%{total_participated}, %{total_replay_watched}, %{creator_name}, %{creator_screen_name}")
	register(key.DownloadKeepRecorded, true, "Keep the intermediate recorded file after merging a live space")
	register(key.DownloadWritePlaylist, false, "Keep the rewritten .m3u8 playlist next to the output")
	register(key.DownloadStrict, false, "Stop the job sequence as soon as one ffmpeg job fails.\nBy default a failed job is logged and the next one runs")
	register(key.DownloadForwardOutput, false, "Forward ffmpeg progress output to the terminal")
	register(key.DownloadParallel, 2, "Number of spaces downloaded concurrently in a user run")
	register(key.APIRetryAttempts, 5, "Attempts at acquiring a guest token before giving up")
	register(key.APIRetryBackoff, 1000, "Milliseconds to wait between guest token attempts")
	register(key.APIImpersonate, false, "Use a Chrome TLS fingerprint for upstream API requests")
	register(key.FFmpegPath, "ffmpeg", "Path or name of the ffmpeg executable")
	register(key.HooksEnable, true, "Load Lua hook scripts from the hooks directory.\nType \"spacedl where --hooks\" to show it")
	register(key.ArchiveEnable, true, "Remember downloaded spaces and skip them in user runs")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
