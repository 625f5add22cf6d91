package config

// TracingConfig controls OpenTelemetry span export.
type TracingConfig struct {
    Enabled     bool
    ServiceName string
    Endpoint    string
    Insecure    bool
    SampleRatio float64
}

func LoadTracingConfig() TracingConfig {
    ratio := envFloat("OTEL_SAMPLER_RATIO", 0.1)
    if ratio < 0 {
        ratio = 0
    }
    if ratio > 1 {
        ratio = 1
    }
    return TracingConfig{
        Enabled:     envBool("OTEL_ENABLED", false),
        ServiceName: envStr("OTEL_SERVICE_NAME", "sakila-rental-service"),
        Endpoint:    envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
        Insecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
        SampleRatio: ratio,
    }
}
