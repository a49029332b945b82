// Command schema emits the JSON schema for trajectory catalog documents so
// external authoring tools can validate templates before shipping them.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"

	"shotline/server/trajectory/catalog"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "output path for the JSON schema")
	flag.Parse()

	if outPath == "" {
		log.Fatal("schema: missing -out path")
	}

	schema, err := buildSchema()
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("schema: marshal schema: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("schema: create output dir: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("schema: write schema: %v", err)
	}
}

func buildSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	docSchema := reflector.ReflectFromType(reflect.TypeOf(catalog.Document{}))
	if docSchema == nil {
		return nil, fmt.Errorf("failed to reflect document schema")
	}
	docSchema.Version = ""
	docSchema.Title = "Trajectory Document"
	docSchema.Description = "Designer-authored trajectory template resolved into shot payloads."

	// Trajectory hides a tagged segment union behind custom JSON
	// marshalling, so reflection cannot see its wire shape. Attach it by
	// hand.
	if docSchema.Properties != nil {
		docSchema.Properties.Set("trajectory", trajectorySchema())
	}
	return docSchema, nil
}

func trajectorySchema() *jsonschema.Schema {
	segmentProps := orderedmap.New()
	segmentProps.Set("type", &jsonschema.Schema{
		Type: "string",
		Enum: []interface{}{"line", "circle", "cone", "swing"},
	})
	segmentProps.Set("direction", &jsonschema.Schema{Type: "number"})
	segmentProps.Set("length", &jsonschema.Schema{Type: "number"})
	segmentProps.Set("range", &jsonschema.Schema{Type: "number"})
	segmentProps.Set("angle", &jsonschema.Schema{Type: "number"})
	segmentProps.Set("cut", &jsonschema.Schema{Type: "number"})
	segmentProps.Set("directionStep", &jsonschema.Schema{Type: "number"})
	segmentProps.Set("rangeStep", &jsonschema.Schema{Type: "number"})
	segmentProps.Set("count", &jsonschema.Schema{Type: "integer"})
	segmentProps.Set("collision", &jsonschema.Schema{Type: "object"})
	segmentProps.Set("props", &jsonschema.Schema{Type: "object"})
	segmentProps.Set("onHit", &jsonschema.Schema{
		Type: "string",
		Enum: []interface{}{"stop", "next", "need", "skip"},
	})
	segmentProps.Set("hitOrder", &jsonschema.Schema{
		Type: "string",
		Enum: []interface{}{"near", "far", "left", "right"},
	})
	segmentProps.Set("hitAmount", &jsonschema.Schema{Type: "integer"})

	segment := &jsonschema.Schema{
		Type:        "object",
		Description: "One tagged trajectory segment.",
		Required:    []string{"type"},
		Properties:  segmentProps,
	}

	trajectoryProps := orderedmap.New()
	trajectoryProps.Set("segments", &jsonschema.Schema{
		Type:  "array",
		Items: segment,
	})
	return &jsonschema.Schema{
		Type:       "object",
		Required:   []string{"segments"},
		Properties: trajectoryProps,
	}
}
