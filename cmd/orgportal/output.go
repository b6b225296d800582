package main

import (
	"encoding/json"
	"io"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return withCode(exitStore, errors.Wrap(err, "yaml encode"))
		}
		return withCode(exitStore, enc.Close())
	default:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return withCode(exitStore, errors.Wrap(err, "json encode"))
		}
		return nil
	}
}
