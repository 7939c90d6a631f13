package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine matches a metric line by name, a partial label pattern and
// value. The OTel exporter adds scope labels, hence the regex.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		noOpMetrics.RecordOperation(ctx, "token", "validate", "invalid")
		noOpMetrics.RecordDuration(ctx, "token", "validate", time.Millisecond, "invalid")
		noOpMetrics.RecordIssuance(ctx, "payroll", "api_key")
	})
}

func TestBusinessMetrics_Export(t *testing.T) {
	provider, err := NewProvider("broker_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "broker_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "token", "issue_by_api_key", "success")
	bm.RecordOperation(ctx, "token", "issue_by_api_key", "success")
	bm.RecordOperation(ctx, "token", "issue_by_api_key", "error")
	bm.RecordOperation(ctx, "tenant", "lookup_by_name", "success")

	bm.RecordDuration(ctx, "token", "validate", 5*time.Millisecond, "invalid")
	bm.RecordDuration(ctx, "token", "validate", 7*time.Millisecond, "invalid")

	bm.RecordIssuance(ctx, "payroll", "api_key")
	bm.RecordIssuance(ctx, "payroll", "api_key")
	bm.RecordIssuance(ctx, "crm", "application")

	output := scrape(t, provider)

	assertBizMetricLine(t, output,
		`broker_test_operations_total`,
		`domain="token".*operation="issue_by_api_key".*status="success"`,
		`2`,
	)
	assertBizMetricLine(t, output,
		`broker_test_operations_total`,
		`domain="token".*operation="issue_by_api_key".*status="error"`,
		`1`,
	)
	assertBizMetricLine(t, output,
		`broker_test_operations_total`,
		`domain="tenant".*operation="lookup_by_name".*status="success"`,
		`1`,
	)
	assertBizMetricLine(t, output,
		`broker_test_operation_duration_seconds_count`,
		`domain="token".*operation="validate".*status="invalid"`,
		`2`,
	)
	assertBizMetricLine(t, output,
		`broker_test_tokens_issued_total`,
		`lookup="api_key".*tenant="payroll"`,
		`2`,
	)
	assertBizMetricLine(t, output,
		`broker_test_tokens_issued_total`,
		`lookup="application".*tenant="crm"`,
		`1`,
	)
}
