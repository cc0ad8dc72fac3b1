// internal/growthscan/validation.go
package growthscan

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "github.com/devtavares97/baiane-lp/internal/common/errors"
)

// submissionSchema validates the one-shot submission payload before any
// scoring happens. The scorer itself has no error paths, so the gate lives
// here at the boundary.
var submissionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"contactName": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"contactEmail": map[string]interface{}{
			"type":      "string",
			"minLength": 3,
			"pattern":   `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
		},
		"contactWhatsapp": map[string]interface{}{
			"type": "string",
		},
		"revenueTier": map[string]interface{}{
			"type": "string",
			"enum": []string{"up_to_30k", "30k_to_100k", "100k_to_500k", "above_500k"},
		},
		"mainPain": map[string]interface{}{
			"type": "string",
			"enum": []string{"conversion", "branding", "channel", "sales_process"},
		},
		"teamStructure": map[string]interface{}{
			"type": "string",
			"enum": []string{"solo", "freelancer", "agency", "in_house"},
		},
	},
	"required": []string{"contactName", "contactEmail", "revenueTier", "mainPain"},
}

// ValidateSubmission checks a decoded submission payload against the
// schema and returns a VALIDATION_FAILED error listing every violation.
func ValidateSubmission(payload map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(submissionSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return stderrors.NewValidationFailedError(err.Error())
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return stderrors.NewValidationFailedError(strings.Join(errs, "; "))
	}

	return nil
}
