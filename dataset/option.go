package dataset

// Option configures a Dataset before it opens, mirroring the teacher's own
// Option/config pattern (option.go): each Option mutates the Dataset
// directly rather than a separate settings struct.
type (
	Option func(config)
	config *Dataset
)

// WithDataDir overrides the dataset root directory (spec.md's
// "environment variable naming the dataset root") instead of reading
// LILAC_DATA_DIR.
func WithDataDir(dir string) Option {
	return func(cfg config) {
		cfg.dataDirOverride = dir
	}
}

// WithSampleSize overrides the default sample size (the first N leaf
// values) Stats uses for its approx-distinct-count estimate (spec.md §4.8).
func WithSampleSize(n int) Option {
	return func(cfg config) {
		cfg.sampleSize = n
	}
}

// WithDistinctCap overrides the default unbinned-categorical distinct
// value cap SelectGroups enforces (spec.md §4.8).
func WithDistinctCap(n int) Option {
	return func(cfg config) {
		cfg.distinctCap = n
	}
}
