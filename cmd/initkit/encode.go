package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"github.com/kbukum/initkit/version"
)

type EncodingType string

const (
	EncodingTable EncodingType = "table"
	EncodingYAML  EncodingType = "yaml"
	EncodingJSON  EncodingType = "json"
)

// Encodings lists the supported output formats.
func Encodings() []EncodingType {
	return []EncodingType{EncodingTable, EncodingYAML, EncodingJSON}
}

// encodeSettings renders values in the given format. names fixes the row
// order of the table.
func encodeSettings(output EncodingType, names []string, values map[string]string) ([]byte, error) {
	var data []byte
	var err error
	switch output {
	case EncodingTable:
		data = encodeSettingsAsTable(names, values)
	case EncodingYAML:
		data, err = yaml.Marshal(nonNil(values))
	case EncodingJSON:
		data, err = json.MarshalIndent(nonNil(values), "", "  ")
		data = append(data, '\n')
	default:
		err = fmt.Errorf("unknown output format: %q", output)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding settings as %q failed: %w", output, err)
	}
	return data, nil
}

func encodeSettingsAsTable(names []string, values map[string]string) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Name", "Value"})
	for _, name := range names {
		t.AppendRow(table.Row{name, values[name]})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}

func nonNil(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}

func encodeVersion(output EncodingType, info version.Info) ([]byte, error) {
	if output == EncodingYAML {
		return yaml.Marshal(info)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	return append(data, '\n'), err
}
