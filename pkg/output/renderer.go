// Package output renders run reports: the planned tasks and the conflicts
// that prevented them.
package output

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Renderer writes reports in one format
type Renderer struct {
	writer    io.Writer
	format    Format
	templates *template.Template
	styles    Styles
}

// NewRenderer creates a renderer writing to w. FormatAuto must be resolved
// by the caller; it falls back to plain text here.
func NewRenderer(w io.Writer, format Format) (*Renderer, error) {
	log := logging.GetLogger("output")

	if format == FormatAuto {
		format = FormatText
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse templates")
	}

	lr := lipgloss.NewRenderer(w)
	log.Debug().
		Str("format", format.String()).
		Str("colorProfile", fmt.Sprintf("%v", lr.ColorProfile())).
		Msg("Created renderer")

	return &Renderer{
		writer:    w,
		format:    format,
		templates: tmpl,
		styles:    NewStyles(lr),
	}, nil
}

// Format returns the format the renderer writes
func (r *Renderer) Format() Format {
	return r.format
}

// Render writes the report
func (r *Renderer) Render(report *Report) error {
	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)

	case FormatYAML:
		encoder := yaml.NewEncoder(r.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()

	case FormatTOML:
		return toml.NewEncoder(r.writer).Encode(report)

	case FormatTerminal:
		_, err := io.WriteString(r.writer, r.renderTerminal(report))
		return err

	default:
		var buf bytes.Buffer
		if err := r.templates.ExecuteTemplate(&buf, "text.tmpl", report); err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to execute template")
		}
		_, err := r.writer.Write(buf.Bytes())
		return err
	}
}

// RenderError writes an error message
func (r *Renderer) RenderError(err error) error {
	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(errorObject(err))
	case FormatYAML:
		return yaml.NewEncoder(r.writer).Encode(errorObject(err))
	case FormatTOML:
		return toml.NewEncoder(r.writer).Encode(errorObject(err))
	case FormatTerminal:
		_, writeErr := fmt.Fprintln(r.writer, r.styles.Error.Render("Error:"), err.Error())
		return writeErr
	default:
		_, writeErr := fmt.Fprintf(r.writer, "stowng: ERROR: %s\n", err.Error())
		return writeErr
	}
}

func errorObject(err error) map[string]interface{} {
	obj := map[string]interface{}{
		"error": err.Error(),
		"code":  string(errors.GetErrorCode(err)),
	}
	if details := errors.GetErrorDetails(err); len(details) > 0 {
		// toml has no null, so only plain values survive
		clean := make(map[string]interface{}, len(details))
		for k, v := range details {
			if v != nil {
				clean[k] = v
			}
		}
		obj["details"] = clean
	}
	return obj
}

func (r *Renderer) renderTerminal(report *Report) string {
	s := r.styles
	var b strings.Builder

	for _, group := range report.Conflicts {
		fmt.Fprintf(&b, "%s %s %s would cause conflicts:\n",
			s.Warning.Render("WARNING!"), group.Operation.Gerund(), s.Package.Render(group.Package))
		for _, msg := range group.Messages {
			fmt.Fprintf(&b, "  %s %s\n", s.Bullet.String(), s.Conflict.Render(msg))
		}
	}
	if report.HasConflicts() {
		fmt.Fprintln(&b, s.Warning.Render("All operations aborted."))
		return b.String()
	}

	for _, task := range report.Tasks {
		label, style := s.Action(task)
		line := style.Render(label) + " " + s.Path.Render(task.Path)
		switch {
		case task.Source != "" && label == "LINK":
			line += s.Source.Render(" => " + task.Source)
		case task.Destination != "":
			line += s.Source.Render(" -> " + task.Destination)
		}
		fmt.Fprintln(&b, line)
	}

	switch {
	case report.Simulate:
		fmt.Fprintln(&b, s.Warning.Render("WARNING: in simulation mode so not modifying filesystem."))
	case len(report.Tasks) == 0:
		fmt.Fprintln(&b, s.Summary.Render("Nothing to do."))
	default:
		verb := "planned"
		if report.Applied {
			verb = "applied"
		}
		fmt.Fprintln(&b, s.Summary.Render(fmt.Sprintf("%d %s %s.", len(report.Tasks), plural(len(report.Tasks), "task", "tasks"), verb)))
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
