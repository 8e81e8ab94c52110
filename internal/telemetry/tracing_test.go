package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTracingDisabled(t *testing.T) {
	for _, exporter := range []string{"", "none", " NONE "} {
		shutdown, err := SetupTracing(context.Background(), TraceConfig{ServiceName: "folio-api", Exporter: exporter}, nil)
		require.NoError(t, err, exporter)
		assert.NoError(t, shutdown(context.Background()))
	}
}

func TestSetupTracingRejectsBadConfig(t *testing.T) {
	_, err := SetupTracing(context.Background(), TraceConfig{Exporter: "zipkin"}, nil)
	require.Error(t, err)

	_, err = SetupTracing(context.Background(), TraceConfig{Exporter: "otlp"}, nil)
	require.Error(t, err)
}

func TestSetupTracingStdout(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TraceConfig{ServiceName: "folio-test", Exporter: "stdout"}, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
