// Package importers turns a stream of parsed clipping records into the set
// of clippings a run works with.
//
// # Architecture
//
//	kindle.Parser → RecordSource → Collector → ClippingSet → exporters.Group
//
// The Collector drains a RecordSource to exhaustion. Record-level parse
// errors are reported to its error logger and skipped; any other error stops
// the run. Two collection modes exist:
//
//   - CollectTitles gathers the distinct document titles, sorted.
//   - CollectClippings keeps clippings of the requested titles, dropping
//     repeats of an identity already kept (see entities.Key).
//
// # Example Usage
//
//	collector := importers.NewCollector(log.New(os.Stderr, "", 0))
//	set, result, err := collector.CollectClippings(kindle.NewParser(file), titles)
//	documents := exporters.Group(set.Clippings())
package importers
