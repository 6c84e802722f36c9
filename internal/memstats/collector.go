// Package memstats exports allocator statistics as Prometheus metrics.
package memstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/leafengine/leafcore/core/mem"
)

const subsystem = "mem"

// Collector reads a Tracker, and optionally a slab or page allocator, on
// every scrape.
type Collector struct {
	tracker *mem.Tracker
	slab    *mem.SlabAllocator
	page    *mem.PageAllocator

	allocations *prometheus.Desc
	frees       *prometheus.Desc
	liveBlocks  *prometheus.Desc
	liveBytes   *prometheus.Desc
	peakBytes   *prometheus.Desc
	siteLive    *prometheus.Desc
	siteAllocs  *prometheus.Desc

	slabHits   *prometheus.Desc
	slabMisses *prometheus.Desc
	slabLarge  *prometheus.Desc
	slabPooled *prometheus.Desc

	pageMappings *prometheus.Desc
	pageBytes    *prometheus.Desc
}

// Option attaches an extra statistics source.
type Option func(*Collector)

// WithAllocator exports the allocator's own statistics when it keeps any.
func WithAllocator(a mem.Allocator) Option {
	return func(c *Collector) {
		switch v := a.(type) {
		case *mem.SlabAllocator:
			c.slab = v
		case *mem.PageAllocator:
			c.page = v
		}
	}
}

// New returns a collector for tr with metric names under namespace.
func New(namespace string, tr *mem.Tracker, opts ...Option) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystem, name), help, labels, nil)
	}
	c := &Collector{
		tracker:     tr,
		allocations: desc("allocations_total", "Blocks handed out by tracked allocators."),
		frees:       desc("frees_total", "Blocks returned to tracked allocators."),
		liveBlocks:  desc("live_blocks", "Blocks currently outstanding."),
		liveBytes:   desc("live_bytes", "Bytes currently outstanding."),
		peakBytes:   desc("peak_bytes", "Highest number of bytes outstanding at once."),
		siteLive:    desc("site_live_bytes", "Bytes outstanding per allocation site.", "site"),
		siteAllocs:  desc("site_allocations_total", "Blocks handed out per allocation site.", "site"),

		slabHits:   desc("slab_hits_total", "Slab requests served from a free-list."),
		slabMisses: desc("slab_misses_total", "Slab requests that needed a fresh block."),
		slabLarge:  desc("slab_large_total", "Slab requests above the largest size class."),
		slabPooled: desc("slab_pooled_blocks", "Blocks parked on slab free-lists."),

		pageMappings: desc("page_mappings", "Live page mappings."),
		pageBytes:    desc("page_mapped_bytes", "Bytes held by live page mappings."),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.allocations, c.frees, c.liveBlocks, c.liveBytes, c.peakBytes, c.siteLive, c.siteAllocs,
	} {
		ch <- d
	}
	if c.slab != nil {
		ch <- c.slabHits
		ch <- c.slabMisses
		ch <- c.slabLarge
		ch <- c.slabPooled
	}
	if c.page != nil {
		ch <- c.pageMappings
		ch <- c.pageBytes
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.tracker != nil {
		t := c.tracker.Totals()
		ch <- prometheus.MustNewConstMetric(c.allocations, prometheus.CounterValue, float64(t.Allocations))
		ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(t.Frees))
		ch <- prometheus.MustNewConstMetric(c.liveBlocks, prometheus.GaugeValue, float64(t.LiveBlocks))
		ch <- prometheus.MustNewConstMetric(c.liveBytes, prometheus.GaugeValue, float64(t.LiveBytes))
		ch <- prometheus.MustNewConstMetric(c.peakBytes, prometheus.GaugeValue, float64(t.PeakBytes))

		for _, s := range c.tracker.Sites() {
			site := s.Site.String()
			ch <- prometheus.MustNewConstMetric(c.siteLive, prometheus.GaugeValue, float64(s.LiveBytes), site)
			ch <- prometheus.MustNewConstMetric(c.siteAllocs, prometheus.CounterValue, float64(s.Allocations), site)
		}
	}

	if c.slab != nil {
		s := c.slab.Stats()
		ch <- prometheus.MustNewConstMetric(c.slabHits, prometheus.CounterValue, float64(s.Hits))
		ch <- prometheus.MustNewConstMetric(c.slabMisses, prometheus.CounterValue, float64(s.Misses))
		ch <- prometheus.MustNewConstMetric(c.slabLarge, prometheus.CounterValue, float64(s.Large))
		ch <- prometheus.MustNewConstMetric(c.slabPooled, prometheus.GaugeValue, float64(s.Pooled))
	}
	if c.page != nil {
		p := c.page.Stats()
		ch <- prometheus.MustNewConstMetric(c.pageMappings, prometheus.GaugeValue, float64(p.Mappings))
		ch <- prometheus.MustNewConstMetric(c.pageBytes, prometheus.GaugeValue, float64(p.MappedBytes))
	}
}
