// Package telemetry provides observability primitives for closet: structured
// logging, tracing, and an opt-in metrics collector exposed over HTTP for
// closetctl's --metrics-addr flag.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

// Labels attaches static key/value pairs to every metric in a snapshot
// (instance name, environment, and so on).
type Labels map[string]string

// Default bucket configurations for histograms.
var (
	// KDFLatencyBuckets covers Argon2id derivation time (milliseconds).
	// closet's one suspension point, per the concurrency model, so its
	// latency is the metric most worth watching.
	KDFLatencyBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

	// AEADLatencyBuckets covers seal/open operations (microseconds).
	AEADLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// Collector aggregates counters and latency histograms for a running
// closetctl process. All fields are safe for concurrent use.
type Collector struct {
	// Drawer lifecycle
	drawersCreated uint64
	drawersOpened  uint64
	drawersClosed  uint64
	savesCompleted uint64

	// Capacity
	slotsGrown uint64

	// Security-relevant rejections
	duplicatePassphraseRejections uint64
	wrongPassphraseAttempts       uint64

	// Error metrics, one per closeterr.Kind that can surface from a
	// closet operation
	aeadErrors              uint64
	corruptFileErrors       uint64
	unsupportedVersionErrors uint64
	ioErrors                uint64
	internalErrors          uint64

	// Latency
	kdfLatency  *Histogram
	sealLatency *Histogram
	openLatency *Histogram

	createdAt time.Time
	labels    Labels
}

// NewCollector creates a new metrics collector with the given labels.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	return &Collector{
		kdfLatency:  NewHistogram(KDFLatencyBuckets),
		sealLatency: NewHistogram(AEADLatencyBuckets),
		openLatency: NewHistogram(AEADLatencyBuckets),
		createdAt:   time.Now(),
		labels:      labels,
	}
}

// --- Drawer lifecycle metrics ---

// DrawerCreated increments the drawer-created counter.
func (c *Collector) DrawerCreated() {
	atomic.AddUint64(&c.drawersCreated, 1)
}

// DrawerOpened increments the drawer-opened counter.
func (c *Collector) DrawerOpened() {
	atomic.AddUint64(&c.drawersOpened, 1)
}

// DrawerClosed increments the drawer-closed counter.
func (c *Collector) DrawerClosed() {
	atomic.AddUint64(&c.drawersClosed, 1)
}

// SaveCompleted increments the completed-save counter.
func (c *Collector) SaveCompleted() {
	atomic.AddUint64(&c.savesCompleted, 1)
}

// SlotsGrown increments the capacity-growth counter.
func (c *Collector) SlotsGrown() {
	atomic.AddUint64(&c.slotsGrown, 1)
}

// --- Security-relevant metrics ---

// DuplicatePassphraseRejected records a create/change-password call that
// was rejected because the passphrase already names a slot.
func (c *Collector) DuplicatePassphraseRejected() {
	atomic.AddUint64(&c.duplicatePassphraseRejections, 1)
}

// WrongPassphraseAttempted records an open attempt that matched no slot.
func (c *Collector) WrongPassphraseAttempted() {
	atomic.AddUint64(&c.wrongPassphraseAttempts, 1)
}

// --- Error metrics ---

// RecordAeadError increments the AEAD-failure counter.
func (c *Collector) RecordAeadError() {
	atomic.AddUint64(&c.aeadErrors, 1)
}

// RecordCorruptFileError increments the corrupt-file counter.
func (c *Collector) RecordCorruptFileError() {
	atomic.AddUint64(&c.corruptFileErrors, 1)
}

// RecordUnsupportedVersionError increments the unsupported-version counter.
func (c *Collector) RecordUnsupportedVersionError() {
	atomic.AddUint64(&c.unsupportedVersionErrors, 1)
}

// RecordIoError increments the I/O-failure counter.
func (c *Collector) RecordIoError() {
	atomic.AddUint64(&c.ioErrors, 1)
}

// RecordInternalError increments the internal-failure counter.
func (c *Collector) RecordInternalError() {
	atomic.AddUint64(&c.internalErrors, 1)
}

// --- Latency metrics ---

// RecordKDFLatency records a key-derivation duration.
func (c *Collector) RecordKDFLatency(d time.Duration) {
	c.kdfLatency.Observe(float64(d.Milliseconds()))
}

// RecordSealLatency records an AEAD seal duration.
func (c *Collector) RecordSealLatency(d time.Duration) {
	c.sealLatency.Observe(float64(d.Microseconds()))
}

// RecordOpenLatency records an AEAD open duration.
func (c *Collector) RecordOpenLatency(d time.Duration) {
	c.openLatency.Observe(float64(d.Microseconds()))
}

// --- Snapshot ---

// Snapshot is a point-in-time copy of every metric, safe to read without
// further synchronization.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	DrawersCreated uint64
	DrawersOpened  uint64
	DrawersClosed  uint64
	SavesCompleted uint64
	SlotsGrown     uint64

	DuplicatePassphraseRejections uint64
	WrongPassphraseAttempts       uint64

	AeadErrors               uint64
	CorruptFileErrors        uint64
	UnsupportedVersionErrors uint64
	IoErrors                 uint64
	InternalErrors           uint64

	KDFLatency  HistogramSummary
	SealLatency HistogramSummary
	OpenLatency HistogramSummary

	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Timestamp:                     time.Now(),
		Uptime:                        time.Since(c.createdAt),
		DrawersCreated:                atomic.LoadUint64(&c.drawersCreated),
		DrawersOpened:                 atomic.LoadUint64(&c.drawersOpened),
		DrawersClosed:                 atomic.LoadUint64(&c.drawersClosed),
		SavesCompleted:                atomic.LoadUint64(&c.savesCompleted),
		SlotsGrown:                    atomic.LoadUint64(&c.slotsGrown),
		DuplicatePassphraseRejections: atomic.LoadUint64(&c.duplicatePassphraseRejections),
		WrongPassphraseAttempts:       atomic.LoadUint64(&c.wrongPassphraseAttempts),
		AeadErrors:                    atomic.LoadUint64(&c.aeadErrors),
		CorruptFileErrors:             atomic.LoadUint64(&c.corruptFileErrors),
		UnsupportedVersionErrors:      atomic.LoadUint64(&c.unsupportedVersionErrors),
		IoErrors:                      atomic.LoadUint64(&c.ioErrors),
		InternalErrors:                atomic.LoadUint64(&c.internalErrors),
		KDFLatency:                    c.kdfLatency.Summary(),
		SealLatency:                   c.sealLatency.Summary(),
		OpenLatency:                   c.openLatency.Summary(),
		Labels:                        c.labels,
	}
}

// Reset clears all metrics. Useful for testing.
func (c *Collector) Reset() {
	atomic.StoreUint64(&c.drawersCreated, 0)
	atomic.StoreUint64(&c.drawersOpened, 0)
	atomic.StoreUint64(&c.drawersClosed, 0)
	atomic.StoreUint64(&c.savesCompleted, 0)
	atomic.StoreUint64(&c.slotsGrown, 0)
	atomic.StoreUint64(&c.duplicatePassphraseRejections, 0)
	atomic.StoreUint64(&c.wrongPassphraseAttempts, 0)
	atomic.StoreUint64(&c.aeadErrors, 0)
	atomic.StoreUint64(&c.corruptFileErrors, 0)
	atomic.StoreUint64(&c.unsupportedVersionErrors, 0)
	atomic.StoreUint64(&c.ioErrors, 0)
	atomic.StoreUint64(&c.internalErrors, 0)
	c.kdfLatency.Reset()
	c.sealLatency.Reset()
	c.openLatency.Reset()
	c.createdAt = time.Now()
}

// --- Global Collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector, creating one with default
// settings on first use.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"instance": "default"})
	})
	return globalCollector
}

// SetGlobal replaces the global metrics collector. Call during
// initialization, before any metrics are recorded.
func SetGlobal(c *Collector) {
	globalCollectorOnce.Do(func() {})
	globalCollector = c
}
