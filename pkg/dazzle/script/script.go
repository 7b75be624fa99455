// Package script renders link records as self-describing executable
// wrappers. The rendered file is a polyglot: a POSIX shell script that
// is also a valid Windows batch file, followed by the record JSON after
// the data sentinel. Readers only ever parse the JSON part.
package script

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/djdarcy/dazzlelink/pkg/dazzle/record"
)

// wrapperTemplate is the sh/batch polyglot header. The shell reads the
// batch block as a heredoc and skips it; cmd.exe never reaches the
// heredoc terminator because every batch path ends in exit /b.
const wrapperTemplate = `#!/bin/sh
':' <<'__BATCH__'
:: Windows batch section
@echo off
if "%~1"=="" goto default
if "%~1"=="--open" goto open_target
if "%~1"=="--auto" goto open_target
goto show_info
:default
{{if .OpenByDefault}}goto open_target{{else}}goto show_info{{end}}
:open_target
start "" {{bat .Target}}
exit /b
:show_info
echo DazzleLink Information:
echo Target: {{.Target}}
echo.
echo Use --open to open the target directly
exit /b
__BATCH__

TARGET={{sh .Target}}
MODE={{sh .Mode}}

open_target() {
	if command -v xdg-open >/dev/null 2>&1; then
		exec xdg-open "$TARGET"
	else
		exec open "$TARGET"
	fi
}

show_info() {
	echo "DazzleLink Information:"
	echo "Target: $TARGET"
	echo "Default mode: $MODE"
	echo
	echo "Use --open to open the target directly"
}

case "${1:-}" in
--open | --auto)
	open_target
	;;
--info)
	show_info
	;;
"")
	if [ "$MODE" = "open" ] || [ "$MODE" = "auto" ]; then
		open_target
	else
		show_info
	fi
	;;
*)
	show_info
	;;
esac
exit 0

{{.Sentinel}}
`

var tmpl = template.Must(template.New("wrapper").Funcs(template.FuncMap{
	"sh":  shellQuote,
	"bat": batchQuote,
}).Parse(wrapperTemplate))

type templateData struct {
	Target        string
	Mode          string
	OpenByDefault bool
	Sentinel      string
}

// Render encodes the record as an executable wrapper script with the
// JSON body embedded after the sentinel line.
func Render(rec *record.Record) ([]byte, error) {
	body, err := rec.Encode()
	if err != nil {
		return nil, err
	}

	mode := rec.Config.DefaultMode
	if mode == "" {
		mode = record.ModeInfo
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, templateData{
		Target:        rec.Link.TargetPath,
		Mode:          string(mode),
		OpenByDefault: mode == record.ModeOpen || mode == record.ModeAuto,
		Sentinel:      record.Sentinel,
	})
	if err != nil {
		return nil, fmt.Errorf("render wrapper: %w", err)
	}

	buf.Write(body)
	return buf.Bytes(), nil
}

// Write renders the record and writes it to path atomically, setting
// the execute bit on POSIX systems.
func Write(rec *record.Record, path string) error {
	data, err := Render(rec)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".dazzlelink-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write wrapper: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close wrapper: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0o755); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("chmod wrapper: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename wrapper: %w", err)
	}
	return nil
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// batchQuote wraps s in double quotes for cmd.exe. Embedded double
// quotes are dropped since they cannot appear in valid paths.
func batchQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, "") + `"`
}
