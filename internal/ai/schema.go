package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"

	"resumematch/internal/skills"
)

var entityLabelEnum = []string{
	skills.LabelOrganization,
	skills.LabelProduct,
	skills.LabelLanguage,
	skills.LabelNounPhrase,
}

// responseSchema is the structured-output schema requested from the model.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"entities": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text":  {Type: genai.TypeString},
						"label": {Type: genai.TypeString, Format: "enum", Enum: entityLabelEnum},
					},
					Required: []string{"text", "label"},
				},
			},
		},
		Required: []string{"entities"},
	}
}

// entityResponseJSONSchema checks model output before it is decoded. It
// mirrors responseSchema, since the model is not bound to honour it.
const entityResponseJSONSchema = `{
  "type": "object",
  "required": ["entities"],
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text", "label"],
        "properties": {
          "text": {"type": "string", "minLength": 1},
          "label": {"type": "string", "enum": ["ORG", "PRODUCT", "LANGUAGE", "NOUN_PHRASE"]}
        }
      }
    }
  }
}`

var entityResponseSchema = gojsonschema.NewStringLoader(entityResponseJSONSchema)

type entityResponse struct {
	Entities []skills.Entity `json:"entities"`
}

// decodeEntities validates raw model output and decodes it.
func decodeEntities(raw string) ([]skills.Entity, error) {
	raw = strings.TrimSpace(raw)
	result, err := gojsonschema.Validate(entityResponseSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("response does not match schema: %s", strings.Join(problems, "; "))
	}

	var resp entityResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, err
	}
	return resp.Entities, nil
}
