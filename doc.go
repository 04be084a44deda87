// Package kselect chooses the number of clusters K for K-Means style
// segmentation, such as grouping customers by the offers they responded to.
//
// A sweep fits one clustering per K through a pluggable [Fitter] and scores
// every K three ways:
//
//   - Elbow: the within-cluster sum of squares curve, with an optional
//     max-second-difference pick ([ElbowK], enabled by Config.ElbowRule).
//   - Silhouette: per-point cohesion against separation, averaged per K.
//   - Gap statistic: observed log dispersion against uniform reference sets
//     drawn in the data's bounding box.
//
// Basic usage:
//
//	cfg := kselect.DefaultConfig()
//	cfg.Seed = 42
//	report, err := kselect.Sweep(ctx, responses, cfg)
//	// report.Elbow, report.Silhouette and report.Gap are per-K curves
//	// report.ElbowK, report.SilhouetteK and report.GapK are the suggestions
//
// The scoring functions are also usable on their own with any assignment:
//
//	ss, err := kselect.WithinClusterSS(data, assignment)
//	score, err := kselect.SilhouetteScore(data, assignment.Labels, kselect.EuclideanMetric{})
//
// # Fitters
//
// [LloydFitter] is the default: k-means++ seeding, Lloyd iterations and
// several restarts, deterministic for a seed. [GomlFitter] wraps goml's
// k-means. [SingleLinkageFitter] is agglomerative single-linkage clustering,
// cutting the minimum spanning tree into K components. Any function can be
// used through [FitFunc].
package kselect
