// Package histogram implements dense, regularly-binned, multi-dimensional
// histograms with weighted fills, under/overflow accounting, compatible-binning
// summation, and optional batched fill buffering.
//
// A Histogram owns an ordered set of immutable Axis definitions and a dense
// cell block sized (channels+2) per axis: bins 1..channels are regular, bin 0
// collects underflow and bin channels+1 collects overflow. Fill never rejects
// a coordinate; values outside an axis range land in its edge bins.
//
// Histograms are not safe for concurrent mutation. Serialize Fill, Add,
// SetBinContent, Flush, and Reset per instance; read-only accessors may run
// concurrently with each other but not with any mutator.
package histogram
