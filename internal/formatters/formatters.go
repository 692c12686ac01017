package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumematch/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	for dataType, render := range renderers {
		registry.RegisterFormatter("text", dataType, &documentFormatter{dataType: dataType, render: render, newDoc: newTextDoc})
		registry.RegisterFormatter("markdown", dataType, &documentFormatter{dataType: dataType, render: render, newDoc: newMarkdownDoc})
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *types.MatchReport:
		return "MatchReport"
	case *types.RankingReport:
		return "RankingReport"
	case *types.SkillsResult:
		return "SkillsResult"
	case *types.SimilarityResult:
		return "SimilarityResult"
	case *types.SuggestionsResult:
		return "SuggestionsResult"
	case *types.EngineInfo:
		return "EngineInfo"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// documentFormatter renders one result type through a text or markdown
// document builder.
type documentFormatter struct {
	dataType string
	render   func(doc document, data any) error
	newDoc   func() document
}

func (df *documentFormatter) Format(data any) (string, error) {
	doc := df.newDoc()
	if err := df.render(doc, data); err != nil {
		return "", err
	}
	return doc.String(), nil
}

func (df *documentFormatter) SupportedType() string {
	return df.dataType
}

// document is the small set of layout primitives the renderers use.
type document interface {
	Title(s string)
	Section(s string)
	Field(name string, value any)
	List(items []string)
	Numbered(items []string)
	Paragraph(s string)
	String() string
}

type textDoc struct{ b strings.Builder }

func newTextDoc() document { return &textDoc{} }

func (d *textDoc) Title(s string) {
	fmt.Fprintf(&d.b, "=== %s ===\n\n", strings.ToUpper(s))
}

func (d *textDoc) Section(s string) {
	separate(&d.b)
	fmt.Fprintf(&d.b, "%s:\n", s)
}

func (d *textDoc) Field(name string, value any) {
	fmt.Fprintf(&d.b, "%s: %v\n", name, value)
}

func (d *textDoc) List(items []string) {
	if len(items) == 0 {
		d.b.WriteString("  (none)\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(&d.b, "  - %s\n", item)
	}
	d.b.WriteString("\n")
}

func (d *textDoc) Numbered(items []string) {
	for i, item := range items {
		fmt.Fprintf(&d.b, "%d. %s\n", i+1, item)
	}
	d.b.WriteString("\n")
}

func (d *textDoc) Paragraph(s string) {
	d.b.WriteString(s)
	d.b.WriteString("\n\n")
}

func (d *textDoc) String() string { return strings.TrimRight(d.b.String(), "\n") + "\n" }

type markdownDoc struct{ b strings.Builder }

func newMarkdownDoc() document { return &markdownDoc{} }

func (d *markdownDoc) Title(s string) {
	fmt.Fprintf(&d.b, "# %s\n\n", s)
}

func (d *markdownDoc) Section(s string) {
	separate(&d.b)
	fmt.Fprintf(&d.b, "## %s\n\n", s)
}

func (d *markdownDoc) Field(name string, value any) {
	fmt.Fprintf(&d.b, "**%s:** %v  \n", name, value)
}

func (d *markdownDoc) List(items []string) {
	if len(items) == 0 {
		d.b.WriteString("_None_\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(&d.b, "- %s\n", item)
	}
	d.b.WriteString("\n")
}

func (d *markdownDoc) Numbered(items []string) {
	for i, item := range items {
		fmt.Fprintf(&d.b, "%d. %s\n", i+1, item)
	}
	d.b.WriteString("\n")
}

func (d *markdownDoc) Paragraph(s string) {
	d.b.WriteString(s)
	d.b.WriteString("\n\n")
}

func (d *markdownDoc) String() string { return strings.TrimRight(d.b.String(), "\n") + "\n" }

// separate makes sure a section starts after a blank line.
func separate(b *strings.Builder) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n") {
		b.WriteString("\n")
	}
}
