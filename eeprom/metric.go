package eeprom

import (
	"sync/atomic"
)

// DeviceMetrics contains atomic counters for a Device.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type DeviceMetrics struct {
	// PageWriteCount indicates the number of acknowledged page-chunk transactions.
	PageWriteCount atomic.Uint64
	// BytesWritten indicates the number of data bytes acknowledged by the device.
	BytesWritten atomic.Uint64
	// WriteErrCount indicates the number of failed write transactions.
	WriteErrCount atomic.Uint64

	// ReadCount indicates the number of completed reads.
	ReadCount atomic.Uint64
	// BytesRead indicates the number of data bytes read.
	BytesRead atomic.Uint64
	// ReadErrCount indicates the number of failed reads.
	ReadErrCount atomic.Uint64

	// ProbeCount indicates the number of ready probes issued by WaitReady.
	ProbeCount atomic.Uint64
	// ReadyTimeoutCount indicates the number of WaitReady calls that timed out.
	ReadyTimeoutCount atomic.Uint64
}

func (m *DeviceMetrics) incPageWrite(n int) {
	m.PageWriteCount.Add(1)
	m.BytesWritten.Add(uint64(n))
}

func (m *DeviceMetrics) incWriteErrCount() {
	m.WriteErrCount.Add(1)
}

func (m *DeviceMetrics) incRead(n int) {
	m.ReadCount.Add(1)
	m.BytesRead.Add(uint64(n))
}

func (m *DeviceMetrics) incReadErrCount() {
	m.ReadErrCount.Add(1)
}

func (m *DeviceMetrics) incProbeCount() {
	m.ProbeCount.Add(1)
}

func (m *DeviceMetrics) incReadyTimeoutCount() {
	m.ReadyTimeoutCount.Add(1)
}
