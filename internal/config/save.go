package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/datasync/keymarker/internal/log"
)

// WriteDefaultConfig writes the commented default config to configPath.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	template, err := DefaultConfigTemplate()
	if err != nil {
		return err
	}
	if err := writeAtomic(configPath, []byte(template)); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return err
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// SaveBindings replaces the bindings section of configPath, keeping the
// comments and formatting of every other section.
func SaveBindings(configPath string, bindings []BindingConfig) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	bindingsNode, err := buildBindingsNode(bindings)
	if err != nil {
		return fmt.Errorf("building bindings node: %w", err)
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{{
				Kind: yaml.MappingNode,
				Content: []*yaml.Node{
					{Kind: yaml.ScalarNode, Value: "bindings"},
					bindingsNode,
				},
			}},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return fmt.Errorf("parsing config: top level must be a mapping")
		}
		found := false
		for i := 0; i < len(root.Content)-1; i += 2 {
			if root.Content[i].Value == "bindings" {
				root.Content[i+1] = bindingsNode
				found = true
				break
			}
		}
		if !found {
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: "bindings"},
				bindingsNode,
			)
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

func buildBindingsNode(bindings []BindingConfig) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(bindings); err != nil {
		return nil, err
	}
	// Inline style keeps one binding per line.
	for _, item := range node.Content {
		item.Style = yaml.FlowStyle
	}
	return &node, nil
}

// writeAtomic writes data to a temp file beside path and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".keymarker.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() (string, error) {
	node, err := buildBindingsNode(DefaultBindings())
	if err != nil {
		return "", fmt.Errorf("building bindings node: %w", err)
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string]*yaml.Node{"bindings": node}); err != nil {
		return "", fmt.Errorf("marshaling bindings: %w", err)
	}
	_ = encoder.Close()

	d := Defaults()
	var b strings.Builder
	b.WriteString("# keymarker configuration\n\n")
	b.WriteString("# How long a partial key sequence stays usable.\n")
	fmt.Fprintf(&b, "sequence_timeout: %s\n\n", d.SequenceTimeout)
	b.WriteString("# How long a key that starts a two-key binding waits for the second key.\n")
	fmt.Fprintf(&b, "debounce_window: %s\n\n", d.DebounceWindow)
	b.WriteString("# Markers kept for undo and the F1 history view.\n")
	fmt.Fprintf(&b, "history_capacity: %d\n\n", d.HistoryCapacity)
	b.WriteString("# Key bindings. keys: one or two lowercase letters.\n")
	b.WriteString("#   marker:  name to emit\n")
	b.WriteString("#   prompt:  ask for a label and also emit <marker>_<label>\n")
	b.WriteString("#   defer:   with prompt, emit only <marker>_<label>, or <marker> when the label is empty\n")
	b.WriteString("#   command: undo\n")
	b.WriteString(buf.String())
	b.WriteString("\n# Questions shown for each prompt kind.\nprompts:\n")
	for _, kind := range d.PromptKinds() {
		fmt.Fprintf(&b, "  %s: %q\n", kind, d.Prompts[kind])
	}
	b.WriteString("\n# Store every emitted marker in a local SQLite database.\nrecorder:\n")
	fmt.Fprintf(&b, "  enabled: %t\n", d.Recorder.Enabled)
	b.WriteString("  # path: ~/.keymarker/markers.db\n")
	b.WriteString("\n# Recent prompt labels offered as completions.\nlabels:\n")
	fmt.Fprintf(&b, "  ttl: %s\n  max: %d\n", d.Labels.TTL, d.Labels.Max)
	b.WriteString("\nui:\n")
	fmt.Fprintf(&b, "  log_lines: %d\n", d.UI.LogLines)
	b.WriteString("\n# OpenTelemetry spans for every emitted marker.\ntracing:\n")
	fmt.Fprintf(&b, "  enabled: %t\n", d.Tracing.Enabled)
	b.WriteString("  exporter: file      # none, file, stdout, otlp\n")
	b.WriteString("  # file_path: ~/.config/keymarker/traces/traces.jsonl\n")
	fmt.Fprintf(&b, "  otlp_endpoint: %s\n", d.Tracing.OTLPEndpoint)
	fmt.Fprintf(&b, "  sample_rate: %v\n", d.Tracing.SampleRate)
	b.WriteString("\n# Feature flags.\n# flags:\n#   label-suggestions: true\n#   show-pending: true\n")
	return b.String(), nil
}
