package config

import "github.com/spf13/viper"

// SetViperDefaults registers every default so keys missing from the config
// file still unmarshal to sensible values.
func SetViperDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("sequence_timeout", d.SequenceTimeout)
	v.SetDefault("debounce_window", d.DebounceWindow)
	v.SetDefault("history_capacity", d.HistoryCapacity)
	v.SetDefault("prompts", d.Prompts)
	v.SetDefault("recorder.enabled", d.Recorder.Enabled)
	v.SetDefault("recorder.path", d.Recorder.Path)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("labels.ttl", d.Labels.TTL)
	v.SetDefault("labels.max", d.Labels.Max)
	v.SetDefault("ui.log_lines", d.UI.LogLines)
}
