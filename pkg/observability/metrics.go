package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// CloudWatch rejects batches over 20 datums, so the buffer flushes at that
// size as well as on the timer.
const (
	maxBatchSize  = 20
	flushInterval = 30 * time.Second
)

// Metrics buffers counters and timings and ships them to CloudWatch in
// batches. A nil CloudWatch client turns it into a no-op sink, which is what
// local development and tests use.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client

	mu     sync.Mutex
	buffer []types.MetricDatum
}

// NewMetrics creates a metrics sink publishing under the given namespace
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	m := &Metrics{
		namespace: namespace,
		client:    client,
	}

	if client != nil {
		go m.flushLoop()
	}

	return m
}

// Increment records a count of one for the metric
func (m *Metrics) Increment(metric, label string) {
	m.record(metric, label, 1, types.StandardUnitCount)
}

// RecordDuration records a latency observation in milliseconds
func (m *Metrics) RecordDuration(metric, label string, d time.Duration) {
	m.record(metric, label, float64(d.Milliseconds()), types.StandardUnitMilliseconds)
}

// StartTimer starts a latency timer for the metric. Stop records the elapsed
// time.
func (m *Metrics) StartTimer(metric, label string) *Timer {
	return &Timer{
		metrics: m,
		metric:  metric,
		label:   label,
		start:   time.Now(),
	}
}

// Timer measures one operation's duration
type Timer struct {
	metrics *Metrics
	metric  string
	label   string
	start   time.Time
}

// Stop records the elapsed duration
func (t *Timer) Stop() {
	t.metrics.RecordDuration(t.metric, t.label, time.Since(t.start))
}

func (m *Metrics) record(metric, label string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(metric),
		Value:      aws.Float64(value),
		Unit:       unit,
		Timestamp:  aws.Time(time.Now()),
		Dimensions: []types.Dimension{
			{Name: aws.String("Operation"), Value: aws.String(label)},
		},
	}

	m.mu.Lock()
	m.buffer = append(m.buffer, datum)
	shouldFlush := len(m.buffer) >= maxBatchSize
	m.mu.Unlock()

	if shouldFlush {
		m.Flush(context.Background())
	}
}

// Flush publishes buffered datums. Failures drop the batch; metrics are
// best-effort and never block request handling.
func (m *Metrics) Flush(ctx context.Context) {
	m.mu.Lock()
	batch := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	if len(batch) == 0 || m.client == nil {
		return
	}

	for start := 0; start < len(batch); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(batch) {
			end = len(batch)
		}
		m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(m.namespace),
			MetricData: batch[start:end],
		})
	}
}

func (m *Metrics) flushLoop() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.Flush(context.Background())
	}
}
