// Package prometheus exposes broadcaster and generator state as Prometheus
// metrics.
//
//	reg, err := prometheus.NewRegistry(prometheus.NewCollector("", b, gen))
//	if err != nil {
//		return err
//	}
//	r.Handle("/metrics", prometheus.Handler(reg))
//
// Values are read from Stats and Status at scrape time, so the hot publish
// path carries no metrics overhead.
package prometheus
