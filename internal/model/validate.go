package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed ocr.schema.json
var ocrSchema []byte

var ocrSchemaLoader = gojsonschema.NewBytesLoader(ocrSchema)

// ValidateOCRJSON validates raw JSON against the OCRResult schema.
func ValidateOCRJSON(raw []byte) error {
	res, err := gojsonschema.Validate(ocrSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}

// ParseOCRResult validates raw JSON and decodes it into a normalized OCRResult.
func ParseOCRResult(raw []byte) (*OCRResult, error) {
	if err := ValidateOCRJSON(raw); err != nil {
		return nil, err
	}
	var res OCRResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	res.Normalize()
	return &res, nil
}
