package instrumentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: Config{
				ServiceName:       DefaultServiceName,
				ServiceVersion:    "unknown",
				Enabled:           true,
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"OTEL_SERVICE_NAME":           "podcast-worker",
				"OTEL_SERVICE_INSTANCE_ID":    "worker-1",
				"INSTRUMENTATION_ENABLED":     "false",
				"METRICS_EXPORTER":            "stdout",
				"TRACING_EXPORTER":            "otlp",
				"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
				"OTEL_EXPORTER_OTLP_INSECURE": "true",
				"OTEL_TRACES_SAMPLER_ARG":     "0.5",
				"METRICS_DETAILED_LABELS":     "1",
			},
			want: Config{
				ServiceName:       "podcast-worker",
				ServiceVersion:    "unknown",
				InstanceID:        "worker-1",
				MetricsExporter:   ExporterStdout,
				TracingExporter:   ExporterOTLP,
				OTLPEndpoint:      "collector:4318",
				OTLPInsecure:      true,
				TraceSamplingRate: 0.5,
				DetailedLabels:    true,
			},
		},
		{
			name: "unparsable and empty values fall back",
			env: map[string]string{
				"OTEL_SERVICE_NAME":       "",
				"INSTRUMENTATION_ENABLED": "sometimes",
				"OTEL_TRACES_SAMPLER_ARG": "half",
				"METRICS_DETAILED_LABELS": "yes please",
			},
			want: Config{
				ServiceName:       DefaultServiceName,
				ServiceVersion:    "unknown",
				Enabled:           true,
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 0.1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, configFromEnv(mapLookup(tt.env)))
		})
	}
}

func TestDefaultConfig_ReadsProcessEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "from-env")
	t.Setenv("METRICS_EXPORTER", "otlp")

	config := DefaultConfig()
	assert.Equal(t, "from-env", config.ServiceName)
	assert.Equal(t, ExporterOTLP, config.MetricsExporter)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		errContains []string
	}{
		{
			name: "prometheus without tracing",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "otlp tracing with endpoint",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
		{
			name:   "empty exporters",
			config: Config{},
		},
		{
			name:        "negative sampling rate",
			config:      Config{TraceSamplingRate: -0.5},
			errContains: []string{"sampling rate"},
		},
		{
			name:        "sampling rate above 1",
			config:      Config{TraceSamplingRate: 1.5},
			errContains: []string{"sampling rate"},
		},
		{
			name:        "unknown metrics exporter",
			config:      Config{MetricsExporter: "statsd"},
			errContains: []string{`invalid metrics exporter "statsd"`},
		},
		{
			name:        "unknown tracing exporter",
			config:      Config{TracingExporter: "zipkin"},
			errContains: []string{`invalid tracing exporter "zipkin"`},
		},
		{
			name:        "otlp metrics without endpoint",
			config:      Config{MetricsExporter: ExporterOTLP},
			errContains: []string{"OTLP endpoint is required"},
		},
		{
			name: "every problem is reported",
			config: Config{
				MetricsExporter:   "statsd",
				TracingExporter:   ExporterOTLP,
				TraceSamplingRate: 2,
			},
			errContains: []string{"sampling rate", "invalid metrics exporter", "OTLP endpoint is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if len(tt.errContains) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, s := range tt.errContains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}
